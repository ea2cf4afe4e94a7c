package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSchedulerRegistersBothJobs(t *testing.T) {
	c, err := StartScheduler(&AbandonedCartJob{}, &BestSellerJob{})
	require.NoError(t, err)
	defer c.Stop()

	assert.Len(t, c.Entries(), 2)
}
