package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novaforge/launcher/internal/model"
)

func TestAppliesEmptyRuleList(t *testing.T) {
	assert.False(t, Applies(nil, nil))
	assert.False(t, Applies([]model.Rule{}, Features{"x": true}))
}

func TestAppliesMatchedDisallowFailsTheWholeList(t *testing.T) {
	list := []model.Rule{
		{Action: "allow"},
		{Action: "disallow", Os: &model.Os{Name: OSName()}},
	}
	assert.False(t, Applies(list, nil))

	list2 := []model.Rule{
		{Action: "disallow"},
		{Action: "allow", Os: &model.Os{Name: OSName()}},
	}
	assert.False(t, Applies(list2, nil))
}

func TestAppliesRuleGateWorkedExamples(t *testing.T) {
	assert.False(t, Applies(nil, nil))

	assert.True(t, Applies([]model.Rule{
		{Action: "allow", Os: &model.Os{Name: OSName()}},
	}, nil))

	assert.False(t, Applies([]model.Rule{
		{Action: "disallow", Os: &model.Os{Name: OSName()}},
		{Action: "allow"},
	}, nil))
}

func TestAppliesNoMatchIsFalse(t *testing.T) {
	list := []model.Rule{
		{Action: "allow", Os: &model.Os{Name: "not-" + OSName()}},
	}
	assert.False(t, Applies(list, nil))
}

func TestAppliesFeatureGate(t *testing.T) {
	list := []model.Rule{
		{Action: "allow", Features: map[string]any{"has_custom_resolution": true}},
	}
	assert.True(t, Applies(list, Features{"has_custom_resolution": true}))
	assert.False(t, Applies(list, Features{"has_custom_resolution": false}))
	assert.False(t, Applies(list, nil))
}

func TestAppliesOsVersionRegex(t *testing.T) {
	prev := osVersionOverride
	defer func() { osVersionOverride = prev }()

	osVersionOverride = "10.0.19045"
	list := []model.Rule{
		{Action: "allow", Os: &model.Os{Version: `^10\.`}},
	}
	assert.True(t, Applies(list, nil))

	osVersionOverride = "6.1.7601"
	assert.False(t, Applies(list, nil))
}

func TestOSArchTag(t *testing.T) {
	tag := OSArchTag()
	assert.NotEmpty(t, tag)
}
