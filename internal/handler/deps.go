package handler

import (
	"moviehub/internal/app/catalog"
	"moviehub/internal/app/notify"
	"moviehub/internal/app/store"
	"moviehub/internal/configs"
	"moviehub/internal/pkg/auth"
	"moviehub/internal/pkg/worker"
)

// AppDeps carries the long-lived collaborators shared by every handler.
type AppDeps struct {
	Config     *configs.AppConfig
	Registry   *notify.Registry
	Notifier   *notify.Notifier
	Origins    *notify.OriginPolicy
	Dispatcher *worker.Pool
	Validator  auth.Validator
	Catalog    *catalog.Client
	Store      store.Store
}
