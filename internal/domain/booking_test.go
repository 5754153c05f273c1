package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical intervals", at(0), at(60), at(0), at(60), true},
		{"partial overlap front", at(0), at(60), at(30), at(90), true},
		{"partial overlap back", at(30), at(90), at(0), at(60), true},
		{"b inside a", at(0), at(120), at(30), at(60), true},
		{"a inside b", at(30), at(60), at(0), at(120), true},
		{"touching boundary a before b", at(0), at(60), at(60), at(120), false},
		{"touching boundary b before a", at(60), at(120), at(0), at(60), false},
		{"disjoint", at(0), at(30), at(90), at(120), false},
		{"one minute overlap", at(0), at(61), at(60), at(120), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			assert.Equal(t, tt.want, got)
			// The predicate is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestFeatureValid(t *testing.T) {
	for _, f := range Features() {
		assert.True(t, f.Valid())
	}
	assert.False(t, Feature("Jacuzzi").Valid())
	assert.False(t, Feature("").Valid())
	assert.False(t, Feature("projector").Valid(), "vocabulary is case sensitive")
}

func TestHasAllFeatures(t *testing.T) {
	have := []Feature{FeatureProjector, FeatureWifi}

	assert.True(t, HasAllFeatures(have, nil))
	assert.True(t, HasAllFeatures(have, []Feature{FeatureWifi}))
	assert.True(t, HasAllFeatures(have, []Feature{FeatureProjector, FeatureWifi}))
	assert.False(t, HasAllFeatures(have, []Feature{FeatureWhiteboard}))
	assert.False(t, HasAllFeatures(have, []Feature{FeatureWifi, FeatureWhiteboard}),
		"subset test requires every requested feature, not just an intersection")
	assert.False(t, HasAllFeatures(nil, []Feature{FeatureWifi}))
}

func TestPrincipalPolicy(t *testing.T) {
	owner := Principal{UserID: newUUID(t), Role: RoleClient}
	admin := Principal{UserID: newUUID(t), Role: RoleAdmin}

	assert.True(t, owner.CanActOn(owner.UserID))
	assert.False(t, owner.CanActOn(admin.UserID))
	assert.True(t, admin.CanActOn(owner.UserID))
	assert.False(t, owner.CanManageCatalog())
	assert.True(t, admin.CanManageCatalog())
}
