package kafka

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermanent(t *testing.T) {
	t.Parallel()

	require.NoError(t, Permanent(nil))

	cause := errors.New("bad event")
	err := fmt.Errorf("handle: %w", Permanent(cause))

	require.True(t, IsPermanent(err))
	require.ErrorIs(t, err, cause)
	require.EqualError(t, err, "handle: kafka: permanent failure: bad event")

	require.False(t, IsPermanent(cause))
	require.Equal(t, "kafka: permanent failure", PermanentError{}.Error())
}
