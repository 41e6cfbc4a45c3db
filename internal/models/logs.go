package models

import "strings"

type LogEntry struct {
	ID            int    `json:"id"`
	Level         string `json:"level"`
	Message       string `json:"message"`
	Module        string `json:"module"`
	Function      string `json:"function,omitempty"`
	UserID        *int   `json:"user_id,omitempty"`
	ProductID     *int   `json:"product_id,omitempty"`
	IPAddress     string `json:"ip_address,omitempty"`
	RequestPath   string `json:"request_path,omitempty"`
	RequestMethod string `json:"request_method,omitempty"`
	Traceback     string `json:"traceback,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// LevelClass maps a log level to the badge style used by the log table.
func (l LogEntry) LevelClass() string {
	switch strings.ToLower(l.Level) {
	case "error", "critical":
		return "level-error"
	case "warning":
		return "level-warning"
	case "info":
		return "level-info"
	default:
		return "level-debug"
	}
}

type RealtimeLogs struct {
	Logs     []LogEntry `json:"logs"`
	LatestID int        `json:"latest_id"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type LogStats struct {
	TotalLogs          int            `json:"total_logs"`
	ErrorCount         int            `json:"error_count"`
	LevelDistribution  map[string]int `json:"level_distribution"`
	ModuleDistribution map[string]int `json:"module_distribution"`
	DateRange          DateRange      `json:"date_range"`
}

type ClearLogsResult struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}

// LogFilter is the query shared by the log list and the export endpoint.
type LogFilter struct {
	Page      int
	Limit     int
	Level     string
	Module    string
	Search    string
	StartDate string
	EndDate   string
}

type LogExport struct {
	Logs []LogEntry `json:"logs"`
}

type LogCSVExport struct {
	CSVData string `json:"csv_data"`
}
