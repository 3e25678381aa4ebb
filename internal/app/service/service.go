package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/ds"
	"pipespec/internal/app/quota"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Options struct {
	// DefaultPlan - тариф, на который подписывается новый пользователь.
	DefaultPlan string
	// HashCost - стоимость bcrypt, 0 - bcrypt.DefaultCost.
	HashCost int
	Logos    LogoStorage
	Now      func() time.Time
}

type Services struct {
	Access        *Access
	Users         *Users
	Subscriptions *Subscriptions
	Projects      *Projects
	Specs         *Specs
	Components    *Components

	Ratings               *Catalog[ds.RatingAttrs, string]
	Schedules             *Catalog[ds.ScheduleAttrs, ds.PairKey]
	Sizes                 *Catalog[ds.SizeAttrs, ds.PairKey]
	ComponentDescriptions *Catalog[ds.ComponentDescriptionAttrs, ds.ComponentDescriptionKey]
}

func New(store Store, opts Options, log *logrus.Entry) *Services {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}

	access := NewAccess(store)
	guard := quota.NewGuard(store, log)

	subs := &Subscriptions{store: store, now: opts.Now, log: log.WithField("component", "subscriptions")}

	s := &Services{
		Access:        access,
		Subscriptions: subs,
		Users: &Users{
			store:       store,
			subs:        subs,
			defaultPlan: opts.DefaultPlan,
			hashCost:    opts.HashCost,
			now:         opts.Now,
			log:         log.WithField("component", "users"),
		},
		Components: &Components{store: store},

		Ratings:   NewCatalog("ratings", store, store.Ratings(), access, ds.RatingAttrs.Key, log),
		Schedules: NewCatalog("schedules", store, store.Schedules(), access, ds.ScheduleAttrs.Key, log),
		Sizes:     NewCatalog("sizes", store, store.Sizes(), access, ds.SizeAttrs.Key, log),
		ComponentDescriptions: NewCatalog("component_descriptions", store, store.ComponentDescriptions(), access,
			ds.ComponentDescriptionAttrs.Key, log),
	}

	s.ComponentDescriptions.WithCheck(func(ctx context.Context, a ds.ComponentDescriptionAttrs) error {
		_, err := store.ComponentByID(ctx, a.ComponentID)
		if errors.Is(err, apperr.ErrNotFoundOrDenied) {
			return apperr.NewValidationError("component_id", fmt.Sprintf("unknown component %d", a.ComponentID))
		}
		return err
	})

	s.Projects = &Projects{
		store:  store,
		access: access,
		guard:  guard,
		logos:  opts.Logos,
		log:    log.WithField("component", "projects"),
	}
	s.Specs = &Specs{
		store:   store,
		access:  access,
		guard:   guard,
		ratings: s.Ratings,
		log:     log.WithField("component", "specs"),
	}

	return s
}

// Components - глобальный справочник компонентов.
type Components struct {
	store Store
}

func (c *Components) List(ctx context.Context) ([]ds.Component, error) {
	components, err := c.store.ListComponents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	return components, nil
}
