//go:build integration

package e2e

// End-to-end integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - Registro con codigo de referido: bono inmediato y stats del referidor
//   - Ciclo completo de sala: crear → evidencia → completar → fondos liberados
//   - Disputa con partes nuevas: el motor escala a mediacion con SLA de 48h

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"partth/internal/config"
	"partth/internal/infra"
	"partth/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("partth_test"),
		tcPostgres.WithUsername("partth"),
		tcPostgres.WithPassword("partth"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                  8000,
		Env:                   "test",
		JWTSecret:             "test-secret-key",
		JWTExpirationHours:    8,
		JWTRefreshHours:       24,
		DatabaseURL:           pgURL,
		RedisURL:              rdURL,
		WorkerPoolSize:        1,
		ComisionPlataformaPct: 10,
		ReferidoBonoInmediato: 500,
		ReferidoPctRecurrente: 5,
		MediacionSLAHoras:     48,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	srv := httptest.NewServer(router.New(cfg, db, rdb, smtpCB))
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, db: db}
}

// registrar creates a user through the API and returns its access token + id.
func registrar(t *testing.T, env *testEnv, username, rol string, codigoReferido string) (token, id string) {
	t.Helper()
	body := map[string]any{
		"username": username,
		"nombre":   "Usuario " + username,
		"password": "clave-" + username,
		"rol":      rol,
	}
	if codigoReferido != "" {
		body["codigo_referido"] = codigoReferido
	}
	regResp := do(t, env.server, "POST", "/v1/auth/registro", jsonBody(t, body), "")
	require.Equal(t, http.StatusCreated, regResp.StatusCode)
	var reg struct {
		ID string `json:"id"`
	}
	decodeJSON(t, regResp, &reg)

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": username, "password": "clave-" + username}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)
	require.NotEmpty(t, login.AccessToken)
	return login.AccessToken, reg.ID
}

// fondear credits the wallet directly — deposits are outside the API surface.
func fondear(t *testing.T, env *testEnv, usuarioID string, monto float64) {
	t.Helper()
	res := env.db.Exec("UPDATE wallets SET disponible = disponible + ? WHERE usuario_id = ?", monto, usuarioID)
	require.NoError(t, res.Error)
	require.EqualValues(t, 1, res.RowsAffected)
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_ReferidoBonoInmediato(t *testing.T) {
	env := setupTestEnv(t)

	referidorToken, referidorID := registrar(t, env, "referidor1", "socio", "")

	codigoResp := do(t, env.server, "POST", "/v1/referidos/codigo", jsonBody(t, map[string]any{}), referidorToken)
	require.Equal(t, http.StatusCreated, codigoResp.StatusCode)
	var codigo struct {
		Codigo string `json:"codigo"`
	}
	decodeJSON(t, codigoResp, &codigo)
	require.Len(t, codigo.Codigo, 8)

	_, referidoID := registrar(t, env, "invitado1", "socio", codigo.Codigo)
	require.NotEmpty(t, referidoID)
	_ = referidorID

	// The code owner collected the signup bonus
	walletResp := do(t, env.server, "GET", "/v1/wallet", nil, referidorToken)
	require.Equal(t, http.StatusOK, walletResp.StatusCode)
	var wallet struct {
		Disponible        float64 `json:"disponible,string"`
		GananciasReferido float64 `json:"ganancias_referido,string"`
	}
	decodeJSON(t, walletResp, &wallet)
	assert.Equal(t, 500.0, wallet.Disponible)
	assert.Equal(t, 500.0, wallet.GananciasReferido)

	statsResp := do(t, env.server, "GET", "/v1/referidos/stats", nil, referidorToken)
	require.Equal(t, http.StatusOK, statsResp.StatusCode)
	var stats struct {
		Usos      int `json:"usos"`
		Referidos []struct {
			UsuarioID string `json:"usuario_id"`
		} `json:"referidos"`
	}
	decodeJSON(t, statsResp, &stats)
	assert.Equal(t, 1, stats.Usos)
	require.Len(t, stats.Referidos, 1)
	assert.Equal(t, referidoID, stats.Referidos[0].UsuarioID)
}

func TestE2E_CicloCompletoDeSala(t *testing.T) {
	env := setupTestEnv(t)

	marcaToken, marcaID := registrar(t, env, "marca1", "marca", "")
	socioToken, socioID := registrar(t, env, "socio1", "socio", "")
	fondear(t, env, marcaID, 10000)

	// Marca opens and funds the escrow room: monto 1000, ganancia 200, fee 100
	salaResp := do(t, env.server, "POST", "/v1/salas",
		jsonBody(t, map[string]any{
			"socio_id":       socioID,
			"monto_producto": "1000",
			"ganancia_socio": "200",
		}), marcaToken)
	require.Equal(t, http.StatusCreated, salaResp.StatusCode)
	var sala struct {
		ID                 string  `json:"id"`
		Estado             string  `json:"estado"`
		ComisionPlataforma float64 `json:"comision_plataforma,string"`
	}
	decodeJSON(t, salaResp, &sala)
	assert.Equal(t, "abierta", sala.Estado)
	assert.Equal(t, 100.0, sala.ComisionPlataforma)

	// Socio cannot open salas
	forbResp := do(t, env.server, "POST", "/v1/salas",
		jsonBody(t, map[string]any{
			"socio_id": socioID, "monto_producto": "100", "ganancia_socio": "10",
		}), socioToken)
	assert.Equal(t, http.StatusForbidden, forbResp.StatusCode)
	forbResp.Body.Close()

	// Socio delivers evidence
	evResp := do(t, env.server, "POST", "/v1/salas/"+sala.ID+"/evidencia",
		jsonBody(t, map[string]any{
			"archivos": []string{"remito.pdf", "foto.jpg"},
			"notas":    "Entregado en deposito central, recibido por encargado de turno con remito firmado",
		}), socioToken)
	require.Equal(t, http.StatusOK, evResp.StatusCode)
	evResp.Body.Close()

	// Marca releases the funds
	compResp := do(t, env.server, "POST", "/v1/salas/"+sala.ID+"/completar", jsonBody(t, map[string]any{}), marcaToken)
	require.Equal(t, http.StatusOK, compResp.StatusCode)
	var cerrada struct {
		Estado string `json:"estado"`
	}
	decodeJSON(t, compResp, &cerrada)
	assert.Equal(t, "resuelta_completa", cerrada.Estado)

	// Socio: ganancia available; marca: remainder back, fee paid
	var socioWallet struct {
		Disponible float64 `json:"disponible,string"`
		EnHold     float64 `json:"en_hold,string"`
	}
	decodeJSON(t, do(t, env.server, "GET", "/v1/wallet", nil, socioToken), &socioWallet)
	assert.Equal(t, 200.0, socioWallet.Disponible)
	assert.Equal(t, 0.0, socioWallet.EnHold)

	var marcaWallet struct {
		Disponible        float64 `json:"disponible,string"`
		EnEscrow          float64 `json:"en_escrow,string"`
		ComisionesPagadas float64 `json:"comisiones_pagadas,string"`
	}
	decodeJSON(t, do(t, env.server, "GET", "/v1/wallet", nil, marcaToken), &marcaWallet)
	assert.Equal(t, 9700.0, marcaWallet.Disponible)
	assert.Equal(t, 0.0, marcaWallet.EnEscrow)
	assert.Equal(t, 100.0, marcaWallet.ComisionesPagadas)

	// The immutable ledger recorded the release and the fee
	movResp := do(t, env.server, "GET", "/v1/wallet/movimientos", nil, marcaToken)
	require.Equal(t, http.StatusOK, movResp.StatusCode)
	var movs struct {
		Data []struct {
			Tipo string `json:"tipo"`
		} `json:"data"`
	}
	decodeJSON(t, movResp, &movs)
	tipos := map[string]int{}
	for _, m := range movs.Data {
		tipos[m.Tipo]++
	}
	assert.Equal(t, 1, tipos["fondeo_escrow"])
	assert.Equal(t, 1, tipos["liberacion"])
	assert.Equal(t, 1, tipos["comision"])
}

func TestE2E_DisputaEscalaAMediacion(t *testing.T) {
	env := setupTestEnv(t)

	marcaToken, marcaID := registrar(t, env, "marca2", "marca", "")
	socioToken, socioID := registrar(t, env, "socio2", "socio", "")
	fondear(t, env, marcaID, 5000)

	salaResp := do(t, env.server, "POST", "/v1/salas",
		jsonBody(t, map[string]any{
			"socio_id":       socioID,
			"monto_producto": "1000",
			"ganancia_socio": "200",
		}), marcaToken)
	require.Equal(t, http.StatusCreated, salaResp.StatusCode)
	var sala struct {
		ID string `json:"id"`
	}
	decodeJSON(t, salaResp, &sala)

	evResp := do(t, env.server, "POST", "/v1/salas/"+sala.ID+"/evidencia",
		jsonBody(t, map[string]any{
			"archivos": []string{"a.jpg", "b.jpg", "c.jpg"},
			"notas":    "Entrega realizada en fecha con toda la documentacion respaldatoria adjunta al remito",
		}), socioToken)
	require.Equal(t, http.StatusOK, evResp.StatusCode)
	evResp.Body.Close()

	dispResp := do(t, env.server, "POST", "/v1/disputas",
		jsonBody(t, map[string]any{
			"sala_id": sala.ID,
			"motivo":  "El producto llego con faltantes respecto del remito",
		}), marcaToken)
	require.Equal(t, http.StatusCreated, dispResp.StatusCode)
	var disputa struct {
		ID     string `json:"id"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, dispResp, &disputa)
	assert.Equal(t, "abierta", disputa.Estado)

	// Funds frozen on both sides
	var marcaWallet struct {
		EnEscrow  float64 `json:"en_escrow,string"`
		EnDisputa float64 `json:"en_disputa,string"`
	}
	decodeJSON(t, do(t, env.server, "GET", "/v1/wallet", nil, marcaToken), &marcaWallet)
	assert.Equal(t, 0.0, marcaWallet.EnEscrow)
	assert.Equal(t, 1000.0, marcaWallet.EnDisputa)

	// Both parties are brand new: strong evidence but neutral history keeps the
	// confidence under the auto-apply gate, so the engine escalates.
	resResp := do(t, env.server, "POST", "/v1/disputas/resolver",
		jsonBody(t, map[string]any{
			"sala_id":    sala.ID,
			"disputa_id": disputa.ID,
		}), marcaToken)
	require.Equal(t, http.StatusOK, resResp.StatusCode)
	var resolucion struct {
		Estado                 string  `json:"estado"`
		Ganador                string  `json:"ganador"`
		Confianza              float64 `json:"confianza"`
		RequiereRevisionHumana bool    `json:"requiere_revision_humana"`
		SLAVence               *string `json:"sla_vence"`
		Puntajes               struct {
			Evidencia float64 `json:"evidencia"`
			Historial float64 `json:"historial"`
		} `json:"puntajes"`
	}
	decodeJSON(t, resResp, &resolucion)
	assert.Equal(t, "en_mediacion", resolucion.Estado)
	assert.Equal(t, "socio", resolucion.Ganador)
	assert.Less(t, resolucion.Confianza, 70.0)
	assert.True(t, resolucion.RequiereRevisionHumana)
	require.NotNil(t, resolucion.SLAVence)
	assert.Equal(t, 100.0, resolucion.Puntajes.Evidencia)
	assert.Equal(t, 50.0, resolucion.Puntajes.Historial)

	// A second trigger replays the stored outcome
	againResp := do(t, env.server, "POST", "/v1/disputas/resolver",
		jsonBody(t, map[string]any{
			"sala_id":    sala.ID,
			"disputa_id": disputa.ID,
		}), marcaToken)
	require.Equal(t, http.StatusOK, againResp.StatusCode)
	var again struct {
		Estado    string  `json:"estado"`
		Confianza float64 `json:"confianza"`
	}
	decodeJSON(t, againResp, &again)
	assert.Equal(t, resolucion.Estado, again.Estado)
	assert.Equal(t, resolucion.Confianza, again.Confianza)
}
