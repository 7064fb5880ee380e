package domain

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProjectStatusText(t *testing.T) {
	for _, status := range []ProjectStatus{StatusOpen, StatusApproved, StatusReverted, StatusDeleted, StatusPaidOut, ProjectStatus(9)} {
		text, err := status.MarshalText()
		require.NoError(t, err)

		var decoded ProjectStatus
		require.NoError(t, decoded.UnmarshalText(text))
		require.Equal(t, status, decoded)
	}
	require.Equal(t, "STATUS(9)", ProjectStatus(9).String())

	var status ProjectStatus
	require.Error(t, status.UnmarshalText([]byte("CLOSED")))
}

func TestProjectState(t *testing.T) {
	expiresAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	project := Project{
		ExpiresAt: expiresAt,
		Cost:      NewEther(big.NewInt(100)),
		Raised:    NewEther(big.NewInt(100)),
	}

	require.False(t, project.Expired(expiresAt.Add(-time.Second)))
	require.True(t, project.Expired(expiresAt))
	require.True(t, project.Funded())

	project.Raised = NewEther(big.NewInt(99))
	require.False(t, project.Funded())
}
