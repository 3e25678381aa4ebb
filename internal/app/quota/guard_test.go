package quota_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/ds"
	"pipespec/internal/app/quota"
	"pipespec/internal/app/quota/mocks"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func intPtr(v int) *int { return &v }

func newGuard(t *testing.T) (*quota.Guard, *mocks.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return quota.NewGuard(store, logrus.NewEntry(logger)), store
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		sub  *ds.Subscription
		want quota.Decision
	}{
		{"no subscription", nil, quota.Allowed},
		{"unlimited", &ds.Subscription{}, quota.Allowed},
		{"remaining", &ds.Subscription{RemainingProjects: intPtr(2)}, quota.Allowed},
		{"zero", &ds.Subscription{RemainingProjects: intPtr(0)}, quota.Denied},
		{"negative", &ds.Subscription{RemainingProjects: intPtr(-1)}, quota.Denied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quota.Check(tt.sub, quota.Projects))
		})
	}
}

func TestCheck_CountersAreIndependent(t *testing.T) {
	sub := &ds.Subscription{RemainingProjects: intPtr(0), RemainingSpecs: intPtr(5)}

	assert.Equal(t, quota.Denied, quota.Check(sub, quota.Projects))
	assert.Equal(t, quota.Allowed, quota.Check(sub, quota.Specs))
}

func TestGuard_Reserve_Decrements(t *testing.T) {
	g, store := newGuard(t)
	ctx := context.Background()
	sub := &ds.Subscription{ID: 9, UserID: 1, RemainingSpecs: intPtr(3)}

	store.EXPECT().ActiveSubscription(ctx, uint(1)).Return(sub, nil)
	store.EXPECT().DecrementCounter(ctx, uint(9), quota.Specs).Return(true, nil)

	require.NoError(t, g.Reserve(ctx, 1, quota.Specs))
}

func TestGuard_Reserve_ZeroIsDeniedWithoutWrite(t *testing.T) {
	g, store := newGuard(t)
	ctx := context.Background()
	sub := &ds.Subscription{ID: 9, RemainingProjects: intPtr(0)}

	store.EXPECT().ActiveSubscription(ctx, uint(1)).Return(sub, nil)

	err := g.Reserve(ctx, 1, quota.Projects)
	assert.ErrorIs(t, err, apperr.ErrQuotaExceeded)
}

func TestGuard_Reserve_UnlimitedNeverDecrements(t *testing.T) {
	g, store := newGuard(t)
	ctx := context.Background()

	store.EXPECT().ActiveSubscription(ctx, uint(1)).Return(&ds.Subscription{ID: 9}, nil).Times(3)

	for i := 0; i < 3; i++ {
		require.NoError(t, g.Reserve(ctx, 1, quota.Projects))
	}
}

func TestGuard_Reserve_NoActiveSubscriptionIsOpen(t *testing.T) {
	g, store := newGuard(t)
	ctx := context.Background()

	store.EXPECT().ActiveSubscription(ctx, uint(1)).Return(nil, nil)

	require.NoError(t, g.Reserve(ctx, 1, quota.Projects))
}

func TestGuard_Reserve_LostRace(t *testing.T) {
	g, store := newGuard(t)
	ctx := context.Background()

	store.EXPECT().ActiveSubscription(ctx, uint(1)).Return(&ds.Subscription{ID: 9, RemainingProjects: intPtr(1)}, nil)
	store.EXPECT().DecrementCounter(ctx, uint(9), quota.Projects).Return(false, nil)

	assert.ErrorIs(t, g.Reserve(ctx, 1, quota.Projects), apperr.ErrQuotaExceeded)
}

func TestGuard_Reserve_StoreError(t *testing.T) {
	g, store := newGuard(t)
	ctx := context.Background()
	boom := errors.New("boom")

	store.EXPECT().ActiveSubscription(ctx, uint(1)).Return(nil, boom)

	err := g.Reserve(ctx, 1, quota.Projects)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, apperr.ErrQuotaExceeded)
}

func TestGuard_Release(t *testing.T) {
	g, store := newGuard(t)
	ctx := context.Background()

	sub := &ds.Subscription{ID: 9, RemainingProjects: intPtr(0), Plan: ds.Plan{MaxProjects: intPtr(3)}}

	store.EXPECT().ActiveSubscription(ctx, uint(1)).Return(sub, nil)
	store.EXPECT().IncrementCounter(ctx, uint(9), quota.Projects, 3).Return(true, nil)

	require.NoError(t, g.Release(ctx, 1, quota.Projects))
}

func TestGuard_Release_AtPlanLimitIsNoop(t *testing.T) {
	g, store := newGuard(t)
	ctx := context.Background()
	sub := &ds.Subscription{ID: 9, RemainingProjects: intPtr(1), Plan: ds.Plan{MaxProjects: intPtr(1)}}

	store.EXPECT().ActiveSubscription(ctx, uint(1)).Return(sub, nil)
	store.EXPECT().IncrementCounter(ctx, uint(9), quota.Projects, 1).Return(false, nil)

	require.NoError(t, g.Release(ctx, 1, quota.Projects))
}

func TestGuard_Release_PlanWithoutLimitSkipsWrite(t *testing.T) {
	g, store := newGuard(t)
	ctx := context.Background()

	store.EXPECT().ActiveSubscription(ctx, uint(1)).Return(&ds.Subscription{ID: 9, RemainingSpecs: intPtr(0)}, nil)

	require.NoError(t, g.Release(ctx, 1, quota.Specs))
}

func TestGuard_Release_UnlimitedOrNoSubscription(t *testing.T) {
	g, store := newGuard(t)
	ctx := context.Background()

	store.EXPECT().ActiveSubscription(ctx, uint(1)).Return(&ds.Subscription{ID: 9}, nil)
	store.EXPECT().ActiveSubscription(ctx, uint(2)).Return(nil, nil)

	require.NoError(t, g.Release(ctx, 1, quota.Specs))
	require.NoError(t, g.Release(ctx, 2, quota.Specs))
}
