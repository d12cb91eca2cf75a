package domain

import "time"

type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
	AlertWarning AlertKind = "warning"
	AlertInfo    AlertKind = "info"
)

// TTL is how long an alert of this kind stays visible.
func (k AlertKind) TTL() time.Duration {
	if k == AlertError || k == AlertWarning {
		return 10 * time.Second
	}
	return 5 * time.Second
}

// Alert is a transient, auto-expiring notification.
type Alert struct {
	ID        string    `json:"id"`
	Kind      AlertKind `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
