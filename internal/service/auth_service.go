package service

import (
	"context"
	"errors"
	"time"

	"partth/internal/config"
	"partth/internal/dto"
	"partth/internal/model"
	"partth/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Registro(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	ObtenerUsuario(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	// ListarUsuarios lists accounts for the admin panel; inactive ones only
	// when incluirInactivos is set.
	ListarUsuarios(ctx context.Context, incluirInactivos bool) (*dto.UsuarioListResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
	ReactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo         repository.UsuarioRepository
	walletRepo   repository.WalletRepository
	referidoRepo repository.ReferidoRepository
	cfg          *config.Config
}

func NewAuthService(
	repo repository.UsuarioRepository,
	walletRepo repository.WalletRepository,
	referidoRepo repository.ReferidoRepository,
	cfg *config.Config,
) AuthService {
	return &authService{repo: repo, walletRepo: walletRepo, referidoRepo: referidoRepo, cfg: cfg}
}

// ── Registro ──────────────────────────────────────────────────────────────────
// Creates the usuario plus its wallet atomically. When a referral code is
// supplied, the referred-side record and the immediate bonus for the code
// owner commit in the same transaction.

func (s *authService) Registro(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error) {
	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("el username ya existe")
	}

	// Resolve the referral code before touching the DB
	var codigo *model.CodigoReferido
	if req.CodigoReferido != nil && *req.CodigoReferido != "" {
		c, err := s.referidoRepo.FindCodigo(ctx, *req.CodigoReferido)
		if err != nil {
			return nil, errors.New("codigo de referido invalido")
		}
		codigo = c
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}

	user := &model.Usuario{
		Username:         req.Username,
		Nombre:           req.Nombre,
		Email:            req.Email,
		PasswordHash:     string(hash),
		Rol:              req.Rol,
		Reputacion:       50,
		DealsCompletados: 0,
		Activo:           true,
	}
	if codigo != nil {
		referidorID := codigo.UsuarioID
		user.ReferidoPorID = &referidorID
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, user); err != nil {
			return err
		}
		if err := s.walletRepo.CreateTx(tx, &model.Wallet{UsuarioID: user.ID}); err != nil {
			return err
		}
		if codigo == nil {
			return nil
		}

		bono := decimal.NewFromFloat(s.cfg.ReferidoBonoInmediato)

		if err := s.referidoRepo.CreateReferidoTx(tx, &model.Referido{
			CodigoReferidoID: codigo.ID,
			UsuarioID:        user.ID,
			BonoInmediato:    bono,
		}); err != nil {
			return err
		}

		codigo.Usos++
		codigo.GananciasTotales = codigo.GananciasTotales.Add(bono)
		if err := s.referidoRepo.UpdateCodigoTx(tx, codigo); err != nil {
			return err
		}

		// Pay the immediate bonus to the code owner
		w, err := s.walletRepo.FindByUsuarioIDTx(tx, codigo.UsuarioID)
		if err != nil {
			return err
		}
		w.Disponible = w.Disponible.Add(bono)
		w.GananciasReferido = w.GananciasReferido.Add(bono)
		if err := s.walletRepo.UpdateTx(tx, w); err != nil {
			return err
		}
		refID := user.ID
		return s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
			WalletID:     w.ID,
			Tipo:         "bono_referido",
			Monto:        bono,
			Descripcion:  "Bono por referir a " + user.Username,
			ReferenciaID: &refID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return usuarioToResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("credenciales invalidas")
	}
	if !user.Activo {
		return nil, errors.New("usuario inactivo")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciales invalidas")
	}

	return s.buildLoginResponse(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalido o expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims invalidos")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("token mal formado")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, errors.New("usuario no encontrado o inactivo")
	}

	return s.buildLoginResponse(user)
}

func (s *authService) ObtenerUsuario(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}
	return usuarioToResponse(user), nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}
	if req.Nombre != "" {
		user.Nombre = req.Nombre
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return usuarioToResponse(user), nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInactivos bool) (*dto.UsuarioListResponse, error) {
	var (
		users []model.Usuario
		err   error
	)
	if incluirInactivos {
		users, err = s.repo.ListAll(ctx)
	} else {
		users, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(users))
	for i := range users {
		out = append(out, *usuarioToResponse(&users[i]))
	}
	return &dto.UsuarioListResponse{Usuarios: out, Total: len(out)}, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("usuario no encontrado")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *authService) ReactivarUsuario(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("usuario no encontrado")
	}
	return s.repo.Reactivar(ctx, id)
}

func (s *authService) buildLoginResponse(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         *usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"rol":      user.Rol,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) *dto.UsuarioResponse {
	return &dto.UsuarioResponse{
		ID:               u.ID.String(),
		Username:         u.Username,
		Nombre:           u.Nombre,
		Email:            u.Email,
		Rol:              u.Rol,
		Reputacion:       u.Reputacion,
		DealsCompletados: u.DealsCompletados,
		NivelFidelidad:   u.NivelFidelidad(),
		Activo:           u.Activo,
	}
}
