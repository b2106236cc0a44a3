package app

import (
	"errors"

	"tubeexpert/internal/lifecycle"
	"tubeexpert/internal/seo"
	"tubeexpert/internal/storage"
	"tubeexpert/internal/youtube"
	"tubeexpert/pkg/config"
)

type Service struct {
	cfg        *config.Config
	controller *lifecycle.Controller
	store      storage.Store
	youtube    *youtube.Client
	defaults   seo.Request
	closers    []func() error
}

type ServiceOptions struct {
	Config     *config.Config
	Controller *lifecycle.Controller
	Store      storage.Store
	YouTube    *youtube.Client
	Defaults   seo.Request
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:        opts.Config,
		controller: opts.Controller,
		store:      opts.Store,
		youtube:    opts.YouTube,
		defaults:   opts.Defaults,
	}
}

func (s *Service) Config() *config.Config             { return s.cfg }
func (s *Service) Controller() *lifecycle.Controller { return s.controller }
func (s *Service) Store() storage.Store               { return s.store }
func (s *Service) YouTube() *youtube.Client           { return s.youtube }
func (s *Service) Defaults() seo.Request              { return s.defaults }

// Close stops the controller ticker and releases storage clients.
func (s *Service) Close() error {
	if s.controller != nil {
		s.controller.Close()
	}
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
