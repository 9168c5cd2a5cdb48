package notification

import (
	"context"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
)

type mockSNSClient struct {
	errs      []error
	healthErr error
	attempts  int
	published []Message
}

func (s *mockSNSClient) Publish(ctx context.Context, subject string, body string) (string, error) {
	attempt := s.attempts
	s.attempts++
	s.published = append(s.published, Message{Subject: subject, Body: body})
	if attempt < len(s.errs) && s.errs[attempt] != nil {
		return "", s.errs[attempt]
	}
	return "7a0f24ba-2a8e-4b9a-9d3f-deadbeef0001", nil
}

func (s *mockSNSClient) Healthcheck() fthealth.Check {
	return fthealth.Check{
		Name: "Mock SNS",
		Checker: func() (string, error) {
			if s.healthErr != nil {
				return "", s.healthErr
			}
			return "", nil
		},
	}
}
