package llm

import (
	"testing"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		name         string
		modelStr     string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "claude-haiku with version",
			modelStr:     "claude-haiku-4-5",
			wantProvider: "anthropic",
			wantModel:    "claude-haiku-4-5",
			wantErr:      false,
		},
		{
			name:         "claude-sonnet with full version",
			modelStr:     "claude-sonnet-4-5-20251001",
			wantProvider: "anthropic",
			wantModel:    "claude-sonnet-4-5-20251001",
			wantErr:      false,
		},
		{
			name:         "explicit anthropic prefix",
			modelStr:     "anthropic/claude-haiku-4-5",
			wantProvider: "anthropic",
			wantModel:    "claude-haiku-4-5",
			wantErr:      false,
		},
		{
			name:         "explicit lorem prefix",
			modelStr:     "lorem/lorem-fast",
			wantProvider: "lorem",
			wantModel:    "lorem-fast",
			wantErr:      false,
		},
		{
			name:         "lorem-fast model",
			modelStr:     "lorem-fast",
			wantProvider: "lorem",
			wantModel:    "lorem-fast",
			wantErr:      false,
		},
		{
			name:         "lorem-slow model",
			modelStr:     "lorem-slow",
			wantProvider: "lorem",
			wantModel:    "lorem-slow",
			wantErr:      false,
		},
		{
			name:     "empty string",
			modelStr: "",
			wantErr:  true,
		},
		{
			name:     "unknown model prefix",
			modelStr: "unknown-model-123",
			wantErr:  true,
		},
		{
			name:     "unknown provider prefix",
			modelStr: "openai/gpt-4",
			wantErr:  true,
		},
		{
			name:     "provider without model",
			modelStr: "anthropic/",
			wantErr:  true,
		},
		{
			name:     "model without provider",
			modelStr: "/claude-haiku-4-5",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, model, err := ParseModel(tt.modelStr)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseModel() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("ParseModel() unexpected error: %v", err)
				return
			}

			if provider != tt.wantProvider {
				t.Errorf("ParseModel() provider = %v, want %v", provider, tt.wantProvider)
			}

			if model != tt.wantModel {
				t.Errorf("ParseModel() model = %v, want %v", model, tt.wantModel)
			}
		})
	}
}
