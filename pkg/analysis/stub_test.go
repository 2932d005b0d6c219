package analysis

import (
	"context"
	"testing"

	"github.com/aretw0/walkthrough/pkg/catalog"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStub_Analyze(t *testing.T) {
	stub := NewStub()
	ctx := context.Background()
	detour := domain.InstallationStep{ID: catalog.DetourStepID}

	tests := []struct {
		name          string
		req           domain.AnalysisRequest
		wantContains  string
		wantNoContain string
	}{
		{
			name:         "known step",
			req:          domain.AnalysisRequest{Step: domain.InstallationStep{ID: "clone-repo"}, DetourPending: true},
			wantContains: "git clone command completed",
		},
		{
			name:         "unknown step falls back",
			req:          domain.AnalysisRequest{Step: domain.InstallationStep{ID: "does-not-exist"}},
			wantContains: "completed this step successfully",
		},
		{
			name:         "detour pending returns error reply",
			req:          domain.AnalysisRequest{Step: detour, DetourPending: true},
			wantContains: DetourMarker,
		},
		{
			name:          "detour cleared returns success reply",
			req:           domain.AnalysisRequest{Step: detour, DetourPending: false},
			wantContains:  "properly formatted",
			wantNoContain: DetourMarker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stub.Analyze(ctx, tt.req)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantContains)
			if tt.wantNoContain != "" {
				assert.NotContains(t, got, tt.wantNoContain)
			}
		})
	}
}

func TestStub_IsStatelessAcrossCalls(t *testing.T) {
	stub := NewStub()
	req := domain.AnalysisRequest{Step: domain.InstallationStep{ID: catalog.DetourStepID}, DetourPending: true}

	// The flag is owned by the caller: repeated pending calls keep failing.
	for i := 0; i < 3; i++ {
		got, err := stub.Analyze(context.Background(), req)
		require.NoError(t, err)
		assert.Contains(t, got, DetourMarker)
	}
}

func TestStub_Options(t *testing.T) {
	stub := NewStub(
		WithReplies(map[string]string{"a": "reply a"}),
		WithDetour("b", "oops: "+DetourMarker, "fixed"),
		WithFallback("meh"),
	)
	ctx := context.Background()

	got, _ := stub.Analyze(ctx, domain.AnalysisRequest{Step: domain.InstallationStep{ID: "a"}})
	assert.Equal(t, "reply a", got)
	got, _ = stub.Analyze(ctx, domain.AnalysisRequest{Step: domain.InstallationStep{ID: "b"}, DetourPending: true})
	assert.Equal(t, "oops: "+DetourMarker, got)
	got, _ = stub.Analyze(ctx, domain.AnalysisRequest{Step: domain.InstallationStep{ID: "b"}})
	assert.Equal(t, "fixed", got)
	got, _ = stub.Analyze(ctx, domain.AnalysisRequest{Step: domain.InstallationStep{ID: catalog.DetourStepID}})
	assert.Equal(t, "meh", got)
}

func TestStub_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStub().Analyze(ctx, domain.AnalysisRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
