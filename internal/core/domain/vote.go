package domain

import "time"

// DefaultVotePeriodDays is the cooldown window applied when app_config
// carries no vote_period_days entry.
const DefaultVotePeriodDays = 7

// Vote records "this setting was confirmed working by this user at this
// time". A user may not vote for the same Setting again within the
// configured cooldown window.
type Vote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SettingID string    `json:"settingId"`
	CreatedAt time.Time `json:"createdAt"`
}
