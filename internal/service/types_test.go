package service_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcli/internal/service"
)

func TestTask_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want service.Task
	}{
		{
			name: "mongo id",
			in:   `{"_id":"64a1","title":"buy milk","completed":true}`,
			want: service.Task{ID: "64a1", Title: "buy milk", Completed: true},
		},
		{
			name: "plain id",
			in:   `{"id":"1","title":"walk dog"}`,
			want: service.Task{ID: "1", Title: "walk dog"},
		},
		{
			name: "mongo id wins",
			in:   `{"_id":"a","id":"b","title":"x"}`,
			want: service.Task{ID: "a", Title: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.Task
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTask_MarshalUsesMongoID(t *testing.T) {
	data, err := json.Marshal(service.Task{ID: "1", Title: "a"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"1","title":"a","completed":false}`, string(data))
}

func TestIsSessionLost(t *testing.T) {
	assert.True(t, service.IsSessionLost(service.ErrSessionExpired))
	assert.True(t, service.IsSessionLost(fmt.Errorf("refresh: %w", service.ErrNotLoggedIn)))
	assert.False(t, service.IsSessionLost(&service.RequestFailedError{Message: "boom"}))
	assert.False(t, service.IsSessionLost(nil))
}

func TestRequestFailedError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := error(&service.RequestFailedError{Message: "failed to load tasks", Err: cause})

	assert.Equal(t, "failed to load tasks", err.Error())
	assert.ErrorIs(t, err, cause)

	var rf *service.RequestFailedError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &rf)
	assert.Equal(t, "failed to load tasks", rf.Message)
}
