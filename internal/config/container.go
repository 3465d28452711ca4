package config

import (
	"mass-sign-client/internal/domain"
	"mass-sign-client/internal/remote"
	"mass-sign-client/internal/service"
	"mass-sign-client/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config   domain.Config
	Logger   domain.Logger
	Signing  domain.SigningService
	Notices  *service.NoticeLog
	Workflow *service.Workflow
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	cfg, err := NewConfig()
	if err != nil {
		return nil, err
	}
	appLogger := logger.NewLogger(cfg.GetLogLevel())

	signing := remote.NewClient(cfg.GetServiceURL(), appLogger)
	notices := service.NewNoticeLog(appLogger)
	inspector := service.NewPDFInspector()

	workflow := service.NewWorkflow(service.WorkflowOptions{
		Signing:        signing,
		Inspector:      inspector,
		Notifier:       notices,
		Logger:         appLogger,
		PollInterval:   cfg.GetPollInterval(),
		DebounceWindow: cfg.GetDebounceWindow(),
		MaxFileSize:    cfg.GetMaxFileSize(),
	})

	return &Container{
		Config:   cfg,
		Logger:   appLogger,
		Signing:  signing,
		Notices:  notices,
		Workflow: workflow,
	}, nil
}
