package domain

import "time"

// FeedbackType classifies a submission.
type FeedbackType string

const (
	FeedbackGeneral       FeedbackType = "general"
	FeedbackChangeRequest FeedbackType = "change_request"
	FeedbackBug           FeedbackType = "bug"
	FeedbackNewProduct    FeedbackType = "new_product"
)

// FeedbackStatus tracks moderation state.
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackResolved FeedbackStatus = "resolved"
)

// Feedback is a visitor submission, optionally tied to a SKU/Leg.
// Created by anyone; resolved or deleted only by admins.
type Feedback struct {
	ID        string         `json:"id"`
	Type      FeedbackType   `json:"type"`
	Name      string         `json:"name"`
	Message   string         `json:"message"`
	SKU       string         `json:"sku,omitempty"`
	LegNumber string         `json:"legNumber,omitempty"`
	Status    FeedbackStatus `json:"status"`
	Date      time.Time      `json:"date"`
}
