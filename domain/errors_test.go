package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMatchesKindSentinel(t *testing.T) {
	err := NewError(KindWrongNetwork, "ensure network", fmt.Errorf("chain 1"))

	require.True(t, errors.Is(err, ErrorWrongNetwork))
	require.False(t, errors.Is(err, ErrorWalletMissing))
	require.Equal(t, "ensure network: wrong network - chain 1", err.Error())
}

func TestOperationFailedHidesDetail(t *testing.T) {
	err := NewError(KindOperationFailed, "back project", ErrorWalletMissing)

	require.Equal(t, GenericFailureMessage, err.Error())
	require.True(t, errors.Is(err, ErrorWalletMissing))
	require.Equal(t, KindWalletMissing, KindOf(err))
}

func TestWithMessageCopies(t *testing.T) {
	custom := ErrorInvalidInput.WithMessage("title is required")

	require.Equal(t, "title is required", custom.Error())
	require.Empty(t, ErrorInvalidInput.Msg)
	require.True(t, errors.Is(custom, ErrorInvalidInput))
}

func TestKindOfForeignError(t *testing.T) {
	require.Equal(t, KindOperationFailed, KindOf(errors.New("plain")))
	require.Equal(t, KindOperationFailed, KindOf(nil))
	require.Equal(t, "wallet missing", KindWalletMissing.String())
}
