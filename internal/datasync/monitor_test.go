package datasync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/lingosync/internal/datasync"
	mock_datasync "github.com/at-ishikawa/lingosync/internal/mocks/datasync"
	mock_remote "github.com/at-ishikawa/lingosync/internal/mocks/remote"
)

func TestMonitor_Check(t *testing.T) {
	errDown := errors.New("connection refused")

	tests := []struct {
		name          string
		probes        []error
		wantTriggered []bool
		wantHandles   int
		wantOnline    bool
	}{
		{
			name:          "first probe never triggers",
			probes:        []error{nil},
			wantTriggered: []bool{false},
			wantOnline:    true,
		},
		{
			name:          "offline to online triggers once",
			probes:        []error{errDown, errDown, nil, nil},
			wantTriggered: []bool{false, false, true, false},
			wantHandles:   1,
			wantOnline:    true,
		},
		{
			name:          "flapping triggers on every regain",
			probes:        []error{nil, errDown, nil, errDown, nil},
			wantTriggered: []bool{false, false, true, false, true},
			wantHandles:   2,
			wantOnline:    true,
		},
		{
			name:          "going offline does not trigger",
			probes:        []error{nil, errDown},
			wantTriggered: []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			prober := mock_remote.NewMockProber(ctrl)
			handler := mock_datasync.NewMockHandler(ctrl)

			calls := make([]any, len(tt.probes))
			for i, err := range tt.probes {
				calls[i] = prober.EXPECT().Ping(gomock.Any()).Return(err)
			}
			gomock.InOrder(calls...)
			handler.EXPECT().Handle(gomock.Any(), datasync.TriggerConnectivity).
				Return(&datasync.Report{Trigger: datasync.TriggerConnectivity}, nil).
				Times(tt.wantHandles)

			monitor := datasync.NewMonitor(prober, handler, nil)
			got := make([]bool, len(tt.probes))
			for i := range tt.probes {
				got[i] = monitor.Check(context.Background())
			}
			assert.Equal(t, tt.wantTriggered, got)
			assert.Equal(t, tt.wantOnline, monitor.Online())
		})
	}
}
