package kobo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courieros/courierstack/config"
	er "github.com/courieros/courierstack/internal/errors"
)

func TestFetchRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/assets/aXb12345/data/", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "Token secret-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"count": 2,
			"results": [
				{"_id": 101, "reference": "REF-001", "objet": "Facture", "statut": "en_cours", "delais_traitement": "24h"},
				{"_id": 102, "reference": "REF-002", "objet": "Contrat", "statut": "traite", "delais_traitement": 48}
			]
		}`))
	}))
	defer server.Close()

	source := NewKoboService(&config.KoboConfig{
		BaseURL:  server.URL,
		APIToken: "secret-token",
		FormUID:  "aXb12345",
	})

	records, err := source.FetchRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(101), records[0].ID)
	assert.Equal(t, "REF-001", records[0].Reference)
	assert.Equal(t, "24h", records[0].DelaisTraitement)
	assert.Equal(t, float64(48), records[1].DelaisTraitement)
}

func TestFetchRecords_SourceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	source := NewKoboService(&config.KoboConfig{
		BaseURL:  server.URL,
		APIToken: "secret-token",
		FormUID:  "aXb12345",
	})

	_, err := source.FetchRecords(context.Background())
	assert.ErrorIs(t, err, er.ErrSourceUnavailable)
}

func TestFetchRecords_MissingConfiguration(t *testing.T) {
	source := NewKoboService(&config.KoboConfig{})

	_, err := source.FetchRecords(context.Background())
	assert.ErrorIs(t, err, er.ErrMissingConfiguration)
}
