package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Ping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		models  []string
		wantErr bool
	}{
		{name: "model served", status: http.StatusOK, models: []string{"other", "llama3.1:8b"}},
		{name: "model missing", status: http.StatusOK, models: []string{"other"}, wantErr: true},
		{name: "backend down", status: http.StatusBadGateway, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/v1/models" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if tt.status != http.StatusOK {
					w.WriteHeader(tt.status)
					return
				}
				resp := ModelsResponse{}
				for _, id := range tt.models {
					resp.Data = append(resp.Data, ModelInfo{ID: id, Object: "model"})
				}
				_ = json.NewEncoder(w).Encode(resp)
			}))
			defer server.Close()

			client := NewClient(server.URL, "k", "llama3.1:8b", Sampling{})
			err := client.Ping(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Ping() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
