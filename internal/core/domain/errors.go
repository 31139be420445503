package domain

import "errors"

var ErrSettingNotFound = errors.New("setting not found")
var ErrFieldNotFound = errors.New("field not found")
var ErrCategoryNotFound = errors.New("category not found")
var ErrFeedbackNotFound = errors.New("feedback not found")
var ErrProfileNotFound = errors.New("profile not found")
var ErrHistoryNotFound = errors.New("history entry not found")

// ErrCategoryInUse rejects deleting a category while fields reference it.
var ErrCategoryInUse = errors.New("cannot delete category with fields; move fields first")

// ErrLoginRequired rejects authenticated-only operations for guests.
var ErrLoginRequired = errors.New("you must be logged in to do this")

// ErrVoteCooldown rejects a repeat vote inside the cooldown window.
var ErrVoteCooldown = errors.New("this setting was already marked as working recently")

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrAccountPending = errors.New("your account is pending approval")
var ErrForbidden = errors.New("access forbidden")
