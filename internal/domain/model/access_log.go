package model

import "time"

const AccessLogPDFDownload = "pdf_download"

// AccessLog is an append-only audit row.
type AccessLog struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	ArticleID int64     `json:"articleId"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}
