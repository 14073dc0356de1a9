package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnablePullsInDependencies(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Enable(FeatureConversations))

	assert.True(t, s.IsEnabled(FeatureConversations))
	assert.True(t, s.IsEnabled(FeaturePrompts))
	assert.True(t, s.IsEnabled(FeatureCoreTracking))
	assert.False(t, s.IsEnabled(FeatureGitNotes))
}

func TestEnableUnknownFeature(t *testing.T) {
	s := NewSet()
	assert.Error(t, s.Enable(Feature("warp_drive")))
}

func TestDisableCascadesToDependents(t *testing.T) {
	s, err := FromProfile("full")
	require.NoError(t, err)

	off, err := s.Disable(FeaturePrompts)
	require.NoError(t, err)

	assert.False(t, s.IsEnabled(FeaturePrompts))
	assert.False(t, s.IsEnabled(FeatureConversations))
	// Unrelated features stay on.
	assert.True(t, s.IsEnabled(FeatureGitNotes))
	assert.True(t, s.IsEnabled(FeatureMetrics))
	// The disabled feature itself comes last so the list replays cleanly.
	assert.Equal(t, []Feature{FeatureConversations, FeaturePrompts}, off)
}

func TestDisableRootCascadesEverywhere(t *testing.T) {
	s, err := FromProfile("standard")
	require.NoError(t, err)

	_, err = s.Disable(FeatureCoreTracking)
	require.NoError(t, err)
	assert.Empty(t, s.List())
}

func TestDisableNoopWhenOff(t *testing.T) {
	s := NewSet()
	off, err := s.Disable(FeatureMetrics)
	require.NoError(t, err)
	assert.Empty(t, off)
}

func TestFromProfile(t *testing.T) {
	s, err := FromProfile("research")
	require.NoError(t, err)
	assert.Equal(t, "research", s.Profile)
	assert.True(t, s.IsEnabled(FeaturePrompts))
	assert.True(t, s.IsEnabled(FeatureAutoDetection))
	assert.False(t, s.IsEnabled(FeatureRequirements))

	_, err = FromProfile("nope")
	assert.Error(t, err)
}

func TestListIsStable(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Enable(FeatureMetrics))
	require.NoError(t, s.Enable(FeatureInlineMetadata))

	assert.Equal(t, []Feature{FeatureCoreTracking, FeatureInlineMetadata, FeatureMetrics}, s.List())
}

func TestLookup(t *testing.T) {
	info, ok := Lookup(FeatureAuditTrail)
	require.True(t, ok)
	assert.Equal(t, StatusBeta, info.Status)
	assert.Contains(t, info.Dependencies, FeatureGitNotes)

	_, ok = Lookup(Feature("nope"))
	assert.False(t, ok)
}

func TestPlannedFeaturesAreFlagOnly(t *testing.T) {
	planned := []Feature{
		FeatureWebDashboard, FeatureIDEIntegration, FeatureTeamFeatures,
		FeatureRegeneration, FeatureAPIServer,
	}
	for _, f := range planned {
		info, ok := Lookup(f)
		require.True(t, ok, "feature %s not registered", f)
		assert.Equal(t, StatusAlpha, info.Status, "feature %s", f)
		assert.Contains(t, All, f)
		// No preset turns them on.
		for name := range Profiles {
			s, err := FromProfile(name)
			require.NoError(t, err)
			assert.False(t, s.IsEnabled(f), "profile %s enables %s", name, f)
		}
	}

	// They still participate in the dependency graph like any other feature.
	s := NewSet()
	require.NoError(t, s.Enable(FeatureRegeneration))
	assert.True(t, s.IsEnabled(FeaturePrompts))
	assert.True(t, s.IsEnabled(FeatureConversations))
	assert.True(t, s.IsEnabled(FeatureRequirements))
}

func TestLoadMissingFileUsesStandardProfile(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "standard", s.Profile)
	assert.True(t, s.IsEnabled(FeatureInlineMetadata))
	assert.True(t, s.IsEnabled(FeatureCIValidation))
	assert.False(t, s.IsEnabled(FeaturePrompts))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	s, err := FromProfile("minimal")
	require.NoError(t, err)
	require.NoError(t, Save(root, s))

	got, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, s.Profile, got.Profile)
	assert.Equal(t, s.List(), got.List())
}
