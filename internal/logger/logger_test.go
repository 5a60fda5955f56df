package logger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pagesift/internal/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *logger.Config
		wantErr error
	}{
		{
			name:   "defaults fill empty config",
			config: &logger.Config{},
		},
		{
			name:   "json encoding",
			config: &logger.Config{Level: logger.DebugLevel, Encoding: "json"},
		},
		{
			name:   "console encoding in development",
			config: &logger.Config{Encoding: "console", Development: true},
		},
		{
			name:    "unknown encoding",
			config:  &logger.Config{Encoding: "xml"},
			wantErr: logger.ErrInvalidEncoding,
		},
	}

	for i := range tests {
		test := &tests[i]
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			log, err := logger.New(test.config)
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}

func TestNoOp_ChainingReturnsSelf(t *testing.T) {
	t.Parallel()

	log := logger.NewNoOp()
	require.Equal(t, log, log.With("k", "v"))
	require.Equal(t, log, log.WithComponent("test"))
}
