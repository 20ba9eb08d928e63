package kobo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"
	"golang.org/x/net/context"

	"github.com/courieros/courierstack/config"
	"github.com/courieros/courierstack/dto"
	"github.com/courieros/courierstack/interfaces"
	er "github.com/courieros/courierstack/internal/errors"
	"github.com/courieros/courierstack/internal/tracing"
)

// KoboToolbox data API: https://support.kobotoolbox.org/api.html
type koboService struct {
	cfg        *config.KoboConfig
	httpClient *http.Client
}

func NewKoboService(cfg *config.KoboConfig) interfaces.FormSource {
	return &koboService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchRecords pulls every submitted form record in one authenticated request.
// Any non-success response surfaces as ErrSourceUnavailable; there is no
// pagination or retry here, the sync run simply aborts.
func (s *koboService) FetchRecords(ctx context.Context) ([]dto.KoboSubmission, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "KoboService.FetchRecords")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if s.cfg.APIToken == "" || s.cfg.FormUID == "" || s.cfg.BaseURL == "" {
		err := errors.Wrap(er.ErrMissingConfiguration, "kobo api")
		tracing.TraceErr(span, err)
		return nil, err
	}

	url := fmt.Sprintf("%s/api/v2/assets/%s/data/?format=json",
		strings.TrimSuffix(s.cfg.BaseURL, "/"), s.cfg.FormUID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to build Kobo request")
	}
	req.Header.Set("Authorization", "Token "+s.cfg.APIToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(er.ErrSourceUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		span.LogFields(tracingLog.String("responseBody", string(body)))
		err = errors.Wrapf(er.ErrSourceUnavailable, "status %d", resp.StatusCode)
		tracing.TraceErr(span, err)
		return nil, err
	}

	var payload dto.KoboDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to decode Kobo response")
	}

	span.LogKV("recordCount", len(payload.Results))
	return payload.Results, nil
}
