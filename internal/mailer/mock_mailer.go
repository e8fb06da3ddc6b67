package mailer

import "sync"

// SentEmail captures one Send call made against a MockMailer.
type SentEmail struct {
	Recipient string
	Template  string
	Data      any
}

// MockMailer implements Mailer without dialing SMTP. Handlers send mail from
// background goroutines, so access to the record is guarded.
type MockMailer struct {
	mu   sync.Mutex
	sent []SentEmail
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(recipient, templateFile string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, SentEmail{
		Recipient: recipient,
		Template:  templateFile,
		Data:      data,
	})

	return nil
}

// GetSentEmails returns a snapshot of everything sent so far.
func (m *MockMailer) GetSentEmails() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	sent := make([]SentEmail, len(m.sent))
	copy(sent, m.sent)

	return sent
}
