package services

import "log"

// Event types published by the services.
const (
	EventProductCreated   = "product.created"
	EventProductDeleted   = "product.deleted"
	EventSignupOTP        = "user.signup_otp"
	EventPasswordResetOTP = "user.password_reset_otp"
	EventPasswordChanged  = "user.password_changed"
	EventEmailChanged     = "user.email_changed"
)

// EventPublisher hands events to the message broker.
type EventPublisher interface {
	PublishEvent(eventType string, payload interface{}) error
}

// publish sends an event if a publisher is configured. Failures are logged, never returned.
func publish(events EventPublisher, eventType string, payload interface{}) {
	if events == nil {
		return
	}
	if err := events.PublishEvent(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
