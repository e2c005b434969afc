package service

// Mailer delivers a single HTML email. The SMTP implementation lives in
// pkg/mailer; tests substitute a recorder.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}
