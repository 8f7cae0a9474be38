package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/spam-guard/app/handlers"
	"github.com/amirphl/spam-guard/app/services"
	businessflow "github.com/amirphl/spam-guard/business_flow"
	"github.com/amirphl/spam-guard/config"
	"github.com/amirphl/spam-guard/models"
	"github.com/amirphl/spam-guard/repository"
	testingutil "github.com/amirphl/spam-guard/testing"
	"github.com/amirphl/spam-guard/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
			BodyLimit:    1 << 20,
		},
		Security:   config.SecurityConfig{CORSAllowedOrigins: []string{"*"}},
		Metrics:    config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Deployment: config.DeploymentConfig{Environment: "development", Name: "spam-guard-test"},
	}
}

func newTestApp(t *testing.T, testDB *testingutil.TestDB) *fiber.App {
	t.Helper()

	spamRepo := repository.NewSpamNumberRepository(testDB.DB)
	eventRepo := repository.NewCallEventRepository(testDB.DB)
	cache := services.NewNoopVerdictCache()

	r := NewFiberRouter(testConfig(), Handlers{
		SpamNumber: handlers.NewSpamNumberHandler(
			businessflow.NewSpamNumberFlow(spamRepo, cache, testDB.DB),
			businessflow.NewSpamExportFlow(spamRepo),
		),
		CallEvent: handlers.NewCallEventHandler(businessflow.NewCallEventFlow(eventRepo, services.NewNoopEventPublisher())),
		Decision:  handlers.NewDecisionHandler(businessflow.NewDecisionFlow(spamRepo, cache)),
	}, zap.NewNop())
	r.SetupRoutes()
	return r.GetApp()
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, data
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func numberQuery(path, number string) string {
	return path + "?" + url.Values{"numero": []string{number}}.Encode()
}

func TestRoutes(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		app := newTestApp(t, testDB)
		eventRepo := repository.NewCallEventRepository(testDB.DB)

		t.Run("Health", func(t *testing.T) {
			resp, data := doRequest(t, app, http.MethodGet, "/health", nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"status":"ok"}`, string(data))
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		})

		t.Run("RegisterThenVerify", func(t *testing.T) {
			resp, data := doRequest(t, app, http.MethodPost, "/agregar-numero", map[string]any{
				"numero": "+18095550001",
				"nota":   "robocall",
			})
			require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
			body := decode(t, data)
			assert.Equal(t, "Número agregado como SPAM", body["mensaje"])
			assert.NotZero(t, body["id"])

			resp, data = doRequest(t, app, http.MethodGet, numberQuery("/verificar-numero", "+18095550001"), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			body = decode(t, data)
			assert.Equal(t, "+18095550001", body["numero"])
			assert.Equal(t, true, body["es_spam"])
			assert.Equal(t, "robocall", body["nota"])
			assert.Equal(t, models.DefaultAddedBy, body["quien_agrego"])
			assert.NotEmpty(t, body["fecha_registro"])
		})

		t.Run("VerifyUnknown", func(t *testing.T) {
			resp, data := doRequest(t, app, http.MethodGet, numberQuery("/verificar-numero", " 999 "), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"numero":"999","es_spam":false}`, string(data))
		})

		t.Run("VerifyMissingNumber", func(t *testing.T) {
			resp, data := doRequest(t, app, http.MethodGet, "/verificar-numero", nil)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			body := decode(t, data)
			assert.Equal(t, "VALIDATION_ERROR", body["code"])
			assert.Contains(t, body["errors"], "numero is required")
		})

		t.Run("VerifyBlankNumber", func(t *testing.T) {
			resp, _ := doRequest(t, app, http.MethodGet, numberQuery("/verificar-numero", "   "), nil)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		})

		t.Run("PaddedQueryMatchesStoredNumber", func(t *testing.T) {
			resp, _ := doRequest(t, app, http.MethodPost, "/agregar-numero", map[string]any{"numero": "+18095551234"})
			require.Equal(t, http.StatusOK, resp.StatusCode)

			padded := "   +18095551234" + strings.Repeat(" ", 25)
			resp, data := doRequest(t, app, http.MethodGet, numberQuery("/verificar-numero", padded), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
			body := decode(t, data)
			assert.Equal(t, "+18095551234", body["numero"])
			assert.Equal(t, true, body["es_spam"])

			resp, data = doRequest(t, app, http.MethodDelete, numberQuery("/eliminar-numero", padded), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
			assert.JSONEq(t, `{"mensaje":"Número eliminado correctamente"}`, string(data))
		})

		t.Run("OverlongCallerIsAllowed", func(t *testing.T) {
			caller := "sip:" + strings.Repeat("1", 30) + "@pbx"

			resp, data := doRequest(t, app, http.MethodGet, numberQuery("/issabel-hook", caller), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
			assert.JSONEq(t, `{"accion":"allow","motivo":"number not identified as spam"}`, string(data))

			resp, data = doRequest(t, app, http.MethodGet, numberQuery("/verificar-numero", caller), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
			assert.Equal(t, false, decode(t, data)["es_spam"])

			resp, _ = doRequest(t, app, http.MethodDelete, numberQuery("/eliminar-numero", caller), nil)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})

		t.Run("RegisterOverlongNumber", func(t *testing.T) {
			resp, data := doRequest(t, app, http.MethodPost, "/agregar-numero", map[string]any{"numero": strings.Repeat("9", 33)})
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			assert.Contains(t, decode(t, data)["errors"], "numero must be at most 32 characters")
		})

		t.Run("RegisterDuplicate", func(t *testing.T) {
			resp, _ := doRequest(t, app, http.MethodPost, "/agregar-numero", map[string]any{"numero": "+18095550002"})
			require.Equal(t, http.StatusOK, resp.StatusCode)

			resp, data := doRequest(t, app, http.MethodPost, "/agregar-numero", map[string]any{"numero": " +18095550002 ", "quienagrego": "other"})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode(t, data)
			assert.Equal(t, "El número ya está registrado como SPAM", body["detail"])
			assert.Equal(t, "SPAM_NUMBER_ALREADY_EXISTS", body["code"])
		})

		t.Run("RegisterValidation", func(t *testing.T) {
			resp, data := doRequest(t, app, http.MethodPost, "/agregar-numero", map[string]any{"nota": "no number"})
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			assert.Equal(t, "VALIDATION_ERROR", decode(t, data)["code"])

			resp, _ = doRequest(t, app, http.MethodPost, "/agregar-numero", map[string]any{"numero": "   "})
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			resp, _ = doRequest(t, app, http.MethodPost, "/agregar-numero", `{"numero":`)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		})

		t.Run("IssabelHook", func(t *testing.T) {
			resp, _ := doRequest(t, app, http.MethodPost, "/agregar-numero", map[string]any{"numero": "+18095550003", "nota": "telemarketing"})
			require.Equal(t, http.StatusOK, resp.StatusCode)

			resp, data := doRequest(t, app, http.MethodGet, numberQuery("/issabel-hook", "+18095550003"), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"accion":"redirect","a_numero_virtual":"6000","motivo":"telemarketing"}`, string(data))

			resp, data = doRequest(t, app, http.MethodGet, numberQuery("/issabel-hook", "+18095554444"), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"accion":"allow","motivo":"number not identified as spam"}`, string(data))
		})

		t.Run("IssabelHookSpamWithoutNote", func(t *testing.T) {
			resp, _ := doRequest(t, app, http.MethodPost, "/agregar-numero", map[string]any{"numero": "+18095550004"})
			require.Equal(t, http.StatusOK, resp.StatusCode)

			resp, data := doRequest(t, app, http.MethodGet, numberQuery("/issabel-hook", "+18095550004"), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"accion":"redirect","a_numero_virtual":"6000","motivo":null}`, string(data))
		})

		t.Run("Unregister", func(t *testing.T) {
			resp, _ := doRequest(t, app, http.MethodPost, "/agregar-numero", map[string]any{"numero": "+18095550005"})
			require.Equal(t, http.StatusOK, resp.StatusCode)

			resp, data := doRequest(t, app, http.MethodDelete, numberQuery("/eliminar-numero", "+18095550005"), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"mensaje":"Número eliminado correctamente"}`, string(data))

			resp, data = doRequest(t, app, http.MethodDelete, numberQuery("/eliminar-numero", "+18095550005"), nil)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			body := decode(t, data)
			assert.Equal(t, "Número no encontrado", body["detail"])

			resp, data = doRequest(t, app, http.MethodGet, numberQuery("/verificar-numero", "+18095550005"), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, false, decode(t, data)["es_spam"])
		})

		t.Run("RecordEvent", func(t *testing.T) {
			resp, data := doRequest(t, app, http.MethodPost, "/registrar-evento", map[string]any{
				"numero":     "+18095556666",
				"tipoevento": "llamada_entrante",
				"fuente":     "issabel",
				"detalles":   map[string]any{"canal": "SIP/100", "duracion": 12, "grabado": false},
			})
			require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
			assert.JSONEq(t, `{"mensaje":"Evento registrado"}`, string(data))

			events, err := eventRepo.ByFilter(t.Context(), models.CallEventFilter{Number: utils.ToPtr("+18095556666")}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, events, 1)
			canal, ok := events[0].Details["canal"].AsString()
			require.True(t, ok)
			assert.Equal(t, "SIP/100", canal)
			duracion, ok := events[0].Details["duracion"].AsNumber()
			require.True(t, ok)
			assert.Equal(t, "12", duracion.String())

			// Logging an event never flags the number
			resp, data = doRequest(t, app, http.MethodGet, numberQuery("/verificar-numero", "+18095556666"), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, false, decode(t, data)["es_spam"])
		})

		t.Run("RecordEventValidation", func(t *testing.T) {
			resp, data := doRequest(t, app, http.MethodPost, "/registrar-evento", map[string]any{"numero": "+18095556666"})
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			body := decode(t, data)
			assert.Contains(t, body["errors"], "tipoevento is required")
			assert.Contains(t, body["errors"], "fuente is required")
		})

		t.Run("ListRegistry", func(t *testing.T) {
			resp, data := doRequest(t, app, http.MethodGet, "/test-db", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var rows []map[string]any
			require.NoError(t, json.Unmarshal(data, &rows))
			require.NotEmpty(t, rows)
			for _, key := range []string{"id", "numero", "nota", "quienagrego", "fecharegistro"} {
				assert.Contains(t, rows[0], key)
			}
		})

		t.Run("Export", func(t *testing.T) {
			resp, data := doRequest(t, app, http.MethodGet, "/exportar-numeros?formato=csv", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Disposition"), "numeros_spam.csv")
			assert.Contains(t, string(data), "+18095550001")

			resp, _ = doRequest(t, app, http.MethodGet, "/exportar-numeros", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Disposition"), "numeros_spam.xlsx")

			resp, data = doRequest(t, app, http.MethodGet, "/exportar-numeros?formato=pdf", nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "UNSUPPORTED_EXPORT_FORMAT", decode(t, data)["code"])
		})

		t.Run("MetricsAndSwagger", func(t *testing.T) {
			resp, data := doRequest(t, app, http.MethodGet, "/metrics", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, string(data), "spam_verifications_total")

			resp, data = doRequest(t, app, http.MethodGet, "/swagger.json", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, string(data), "/issabel-hook")
		})

		t.Run("NotFound", func(t *testing.T) {
			resp, data := doRequest(t, app, http.MethodGet, "/api/v1/unknown", nil)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "NOT_FOUND", decode(t, data)["code"])
		})

		return nil
	})
	require.NoError(t, err)
}
