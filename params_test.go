package vectra

import (
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestFilterParams(t *testing.T) {
	t.Run("drops unknown keys silently", func(t *testing.T) {
		logger, hook := logrustest.NewNullLogger()

		got := filterParams(Params{
			"name":       "workstation",
			"not_a_key":  "x",
			"page_size":  50,
			"random_arg": true,
		}, hostParamKeys, hostDeprecatedKeys, logger)

		assert.Equal(t, Params{"name": "workstation", "page_size": 50}, got)
		assert.Empty(t, hook.Entries)
	})

	t.Run("drops nil values", func(t *testing.T) {
		logger, _ := logrustest.NewNullLogger()

		got := filterParams(Params{"name": nil, "state": "active"}, hostParamKeys, hostDeprecatedKeys, logger)

		assert.Equal(t, Params{"state": "active"}, got)
	})

	t.Run("is idempotent", func(t *testing.T) {
		logger, _ := logrustest.NewNullLogger()

		once := filterParams(Params{
			"name":       "ws",
			"threat":     70,
			"bad_key":    1,
			"page":       2,
			"is_triaged": true, // detection-only, dropped for hosts
		}, hostParamKeys, hostDeprecatedKeys, logger)
		twice := filterParams(once, hostParamKeys, hostDeprecatedKeys, logger)

		assert.Equal(t, once, twice)
	})

	t.Run("warns once per deprecated key", func(t *testing.T) {
		logger, hook := logrustest.NewNullLogger()

		got := filterParams(Params{
			"c_score": 50,
			"t_score": 80,
			"threat":  70,
		}, hostParamKeys, hostDeprecatedKeys, logger)

		// Deprecated keys are still forwarded.
		assert.Equal(t, Params{"c_score": 50, "t_score": 80, "threat": 70}, got)
		assert.Len(t, hook.Entries, 2)

		messages := []string{hook.Entries[0].Message, hook.Entries[1].Message}
		assert.Contains(t, messages[0]+messages[1], "deprecated")
	})

	t.Run("detection categories", func(t *testing.T) {
		logger, hook := logrustest.NewNullLogger()

		got := filterParams(Params{
			"category":           "lateral", // deprecated for detections
			"detection_category": "lateral",
			"src_ip":             "10.0.0.1",
		}, detectionParamKeys, detectionDeprecatedKeys, logger)

		assert.Len(t, got, 3)
		assert.Len(t, hook.Entries, 1)
	})
}

func TestParamsValues(t *testing.T) {
	q := Params{
		"name":         "ws",
		"page_size":    50,
		"is_key_asset": true,
	}.values()

	assert.Equal(t, "ws", q.Get("name"))
	assert.Equal(t, "50", q.Get("page_size"))
	assert.Equal(t, "true", q.Get("is_key_asset"))

	assert.Nil(t, Params(nil).values())
}
