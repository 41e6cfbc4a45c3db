package models

type Platform struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"display_name"`
	Description  string   `json:"description"`
	ContentTypes []string `json:"content_types"`
}

type PlatformList struct {
	Platforms []Platform `json:"platforms"`
}

type AnalyticsOverview struct {
	TotalContent     int     `json:"total_content"`
	PublishedContent int     `json:"published_content"`
	PublishRate      float64 `json:"publish_rate"`
	TotalEngagement  int     `json:"total_engagement"`
}

type PlatformStats struct {
	Total         int `json:"total"`
	Published     int `json:"published"`
	TotalLikes    int `json:"total_likes"`
	TotalComments int `json:"total_comments"`
	TotalShares   int `json:"total_shares"`
	TotalViews    int `json:"total_views"`
}

type AnalyticsPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

type SNSAnalytics struct {
	Period        AnalyticsPeriod          `json:"period"`
	Overview      AnalyticsOverview        `json:"overview"`
	PlatformStats map[string]PlatformStats `json:"platform_stats"`
}

type SNSContent struct {
	ID                int      `json:"id"`
	Platform          string   `json:"platform"`
	ContentType       string   `json:"content_type"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Hashtags          []string `json:"hashtags"`
	ImageURLs         []string `json:"image_urls"`
	GeneratedContent  string   `json:"generated_content"`
	GeneratedHashtags []string `json:"generated_hashtags"`
	IsPublished       bool     `json:"is_published"`
	PublishedAt       string   `json:"published_at,omitempty"`
	PublishedURL      string   `json:"published_url,omitempty"`
	Likes             int      `json:"likes"`
	Comments          int      `json:"comments"`
	Shares            int      `json:"shares"`
	Views             int      `json:"views"`
	CreatedAt         string   `json:"created_at"`
}

type GenerateRequest struct {
	Platform    string `json:"platform"`
	ContentType string `json:"content_type"`
}

type ContentUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty"`
}
