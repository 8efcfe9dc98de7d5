package service

import (
	"context"
	"testing"

	"partth/internal/dto"
	"partth/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc          AuthService
	usuarioRepo  *memUsuarioRepo
	walletRepo   *memWalletRepo
	referidoRepo *memReferidoRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		usuarioRepo:  newMemUsuarioRepo(),
		walletRepo:   newMemWalletRepo(),
		referidoRepo: newMemReferidoRepo(),
	}
	f.svc = NewAuthService(f.usuarioRepo, f.walletRepo, f.referidoRepo, testConfig())
	return f
}

func TestRegistro_CreaUsuarioYWallet(t *testing.T) {
	f := newAuthFixture(t)

	email := "nueva@marca.com"
	resp, err := f.svc.Registro(context.Background(), dto.RegistroRequest{
		Username: "nuevamarca",
		Nombre:   "Nueva Marca SRL",
		Email:    &email,
		Password: "password-segura",
		Rol:      model.RolMarca,
	})
	require.NoError(t, err)
	assert.Equal(t, "nuevamarca", resp.Username)
	assert.Equal(t, 50.0, resp.Reputacion)
	assert.Equal(t, model.NivelBronce, resp.NivelFidelidad)

	user, err := f.usuarioRepo.FindByUsername(context.Background(), "nuevamarca")
	require.NoError(t, err)
	assert.NotEqual(t, "password-segura", user.PasswordHash)

	wallet, err := f.walletRepo.FindByUsuarioID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Disponible.IsZero())

	// Duplicate username is rejected
	_, err = f.svc.Registro(context.Background(), dto.RegistroRequest{
		Username: "nuevamarca", Nombre: "Otra", Password: "otra-clave", Rol: model.RolMarca,
	})
	assert.Error(t, err)
}

func TestRegistro_ConCodigoReferidoPagaBono(t *testing.T) {
	f := newAuthFixture(t)

	referidor := f.usuarioRepo.add(&model.Usuario{Username: "referidor", Rol: model.RolSocio, Activo: true})
	f.walletRepo.add(&model.Wallet{UsuarioID: referidor.ID})
	require.NoError(t, f.referidoRepo.CreateCodigo(context.Background(), &model.CodigoReferido{
		UsuarioID: referidor.ID, Codigo: "AMIGO234",
	}))

	codigo := "AMIGO234"
	resp, err := f.svc.Registro(context.Background(), dto.RegistroRequest{
		Username:       "referido1",
		Nombre:         "Socio Referido",
		Password:       "clave-de-registro",
		Rol:            model.RolSocio,
		CodigoReferido: &codigo,
	})
	require.NoError(t, err)

	nuevo, _ := f.usuarioRepo.FindByUsername(context.Background(), resp.Username)
	require.NotNil(t, nuevo.ReferidoPorID)
	assert.Equal(t, referidor.ID, *nuevo.ReferidoPorID)

	// Bono inmediato 500 to the code owner, tracked on wallet, code and record
	w, _ := f.walletRepo.FindByUsuarioID(context.Background(), referidor.ID)
	assert.True(t, w.Disponible.Equal(decimal.NewFromInt(500)))
	assert.True(t, w.GananciasReferido.Equal(decimal.NewFromInt(500)))
	assert.Len(t, f.walletRepo.movimientosDe(w.ID, "bono_referido"), 1)

	c, _ := f.referidoRepo.FindCodigo(context.Background(), "AMIGO234")
	assert.Equal(t, 1, c.Usos)
	assert.True(t, c.GananciasTotales.Equal(decimal.NewFromInt(500)))

	ref, err := f.referidoRepo.FindReferidoByUsuario(context.Background(), nuevo.ID)
	require.NoError(t, err)
	assert.True(t, ref.BonoInmediato.Equal(decimal.NewFromInt(500)))
}

func TestRegistro_CodigoInvalido(t *testing.T) {
	f := newAuthFixture(t)

	codigo := "NOEXISTE"
	_, err := f.svc.Registro(context.Background(), dto.RegistroRequest{
		Username: "alguien", Nombre: "Alguien", Password: "clave-cualquiera",
		Rol: model.RolSocio, CodigoReferido: &codigo,
	})
	assert.Error(t, err)
	_, err = f.usuarioRepo.FindByUsername(context.Background(), "alguien")
	assert.Error(t, err, "el usuario no debe crearse con codigo invalido")
}

func TestLoginYRefresh(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Registro(context.Background(), dto.RegistroRequest{
		Username: "socio1", Nombre: "Socio Uno", Password: "mi-clave-123", Rol: model.RolSocio,
	})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), dto.LoginRequest{Username: "socio1", Password: "incorrecta"})
	assert.Error(t, err)

	login, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "socio1", Password: "mi-clave-123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "bearer", login.TokenType)
	assert.Equal(t, "socio1", login.User.Username)

	refreshed, err := f.svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.Error(t, err)
}

func TestListarUsuarios_FiltraInactivos(t *testing.T) {
	f := newAuthFixture(t)

	for _, u := range []string{"cuenta1", "cuenta2"} {
		_, err := f.svc.Registro(context.Background(), dto.RegistroRequest{
			Username: u, Nombre: u, Password: "clave-" + u + "-123", Rol: model.RolSocio,
		})
		require.NoError(t, err)
	}
	baja, _ := f.usuarioRepo.FindByUsername(context.Background(), "cuenta2")
	require.NoError(t, f.svc.DesactivarUsuario(context.Background(), baja.ID))

	activos, err := f.svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, activos.Total)
	assert.Equal(t, "cuenta1", activos.Usuarios[0].Username)

	todos, err := f.svc.ListarUsuarios(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, todos.Total)
}

func TestDesactivarYReactivarUsuario(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Registro(context.Background(), dto.RegistroRequest{
		Username: "vaivuelve", Nombre: "Va Y Vuelve", Password: "clave-vaivuelve", Rol: model.RolMarca,
	})
	require.NoError(t, err)
	user, _ := f.usuarioRepo.FindByUsername(context.Background(), "vaivuelve")

	require.NoError(t, f.svc.DesactivarUsuario(context.Background(), user.ID))
	_, err = f.svc.Login(context.Background(), dto.LoginRequest{Username: "vaivuelve", Password: "clave-vaivuelve"})
	assert.Error(t, err)

	require.NoError(t, f.svc.ReactivarUsuario(context.Background(), user.ID))
	_, err = f.svc.Login(context.Background(), dto.LoginRequest{Username: "vaivuelve", Password: "clave-vaivuelve"})
	assert.NoError(t, err)

	// IDs desconocidos devuelven error en vez de un no-op silencioso
	assert.Error(t, f.svc.DesactivarUsuario(context.Background(), uuid.New()))
	assert.Error(t, f.svc.ReactivarUsuario(context.Background(), uuid.New()))
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Registro(context.Background(), dto.RegistroRequest{
		Username: "baja1", Nombre: "Baja", Password: "clave-de-baja", Rol: model.RolSocio,
	})
	require.NoError(t, err)
	user, _ := f.usuarioRepo.FindByUsername(context.Background(), "baja1")
	require.NoError(t, f.svc.DesactivarUsuario(context.Background(), user.ID))

	_, err = f.svc.Login(context.Background(), dto.LoginRequest{Username: "baja1", Password: "clave-de-baja"})
	assert.Error(t, err)
}
