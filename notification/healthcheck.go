package notification

import (
	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	"github.com/Financial-Times/service-status-go/gtg"
)

type HealthService struct {
	config *healthConfig
	Checks []fthealth.Check
}

type healthConfig struct {
	appSystemCode string
	appName       string
	description   string
}

func NewHealthService(svc Service, appSystemCode string, appName string, description string) *HealthService {
	return &HealthService{
		config: &healthConfig{
			appSystemCode: appSystemCode,
			appName:       appName,
			description:   description,
		},
		Checks: svc.Healthchecks(),
	}
}

func (svc *HealthService) GTG() gtg.Status {
	for _, check := range svc.Checks {
		if _, err := check.Checker(); err != nil {
			return gtg.Status{GoodToGo: false, Message: err.Error()}
		}
	}
	return gtg.Status{GoodToGo: true}
}
