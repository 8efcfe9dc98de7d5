package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"partth/internal/config"
	"partth/internal/dto"
	"partth/internal/model"
	"partth/internal/repository"
	"partth/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// nowFn is swapped in tests to pin timestamps.
var nowFn = time.Now

var (
	ErrSalaNoEncontrada  = errors.New("sala no encontrada")
	ErrNoEsParte         = errors.New("el usuario no es parte de la sala")
	ErrSaldoInsuficiente = errors.New("saldo insuficiente para fondear la sala")
)

type SalaService interface {
	CrearSala(ctx context.Context, marcaID uuid.UUID, req dto.CrearSalaRequest) (*dto.SalaResponse, error)
	ObtenerSala(ctx context.Context, usuarioID, salaID uuid.UUID) (*dto.SalaResponse, error)
	ListarSalas(ctx context.Context, usuarioID uuid.UUID, filter dto.SalaFilter) (*dto.SalaListResponse, error)
	EntregarEvidencia(ctx context.Context, socioID, salaID uuid.UUID, req dto.EntregarEvidenciaRequest) (*dto.SalaResponse, error)
	AgregarEvento(ctx context.Context, usuarioID uuid.UUID, username string, salaID uuid.UUID, req dto.AgregarEventoRequest) (*dto.SalaResponse, error)
	CompletarSala(ctx context.Context, marcaID, salaID uuid.UUID) (*dto.SalaResponse, error)
	AbrirDisputa(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirDisputaRequest) (*dto.DisputaResponse, error)
}

type salaService struct {
	repo         repository.SalaRepository
	usuarioRepo  repository.UsuarioRepository
	walletRepo   repository.WalletRepository
	disputaRepo  repository.DisputaRepository
	referidoRepo repository.ReferidoRepository
	dispatcher   *worker.Dispatcher
	cfg          *config.Config
}

func NewSalaService(
	repo repository.SalaRepository,
	usuarioRepo repository.UsuarioRepository,
	walletRepo repository.WalletRepository,
	disputaRepo repository.DisputaRepository,
	referidoRepo repository.ReferidoRepository,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) SalaService {
	return &salaService{
		repo:         repo,
		usuarioRepo:  usuarioRepo,
		walletRepo:   walletRepo,
		disputaRepo:  disputaRepo,
		referidoRepo: referidoRepo,
		dispatcher:   dispatcher,
		cfg:          cfg,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CrearSala ─────────────────────────────────────────────────────────────────
// Opens an escrow room between marca and socio:
//  1. Validate the socio and the amounts (pre-flight, outside TX)
//  2. BEGIN TX: debit marca Disponible → EnEscrow, hold socio ganancia,
//     create sala + opening evento + ledger rows
//  3. COMMIT

func (s *salaService) CrearSala(ctx context.Context, marcaID uuid.UUID, req dto.CrearSalaRequest) (*dto.SalaResponse, error) {
	socioID, err := uuid.Parse(req.SocioID)
	if err != nil {
		return nil, fmt.Errorf("socio_id inválido: %w", err)
	}

	socio, err := s.usuarioRepo.FindByID(ctx, socioID)
	if err != nil {
		return nil, errors.New("socio no encontrado")
	}
	if socio.Rol != model.RolSocio || !socio.Activo {
		return nil, errors.New("el usuario destino no es un socio activo")
	}

	if req.MontoProducto.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("monto_producto debe ser mayor a cero")
	}
	if req.GananciaSocio.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("ganancia_socio debe ser mayor a cero")
	}

	comision := req.MontoProducto.
		Mul(decimal.NewFromFloat(s.cfg.ComisionPlataformaPct)).
		Div(decimal.NewFromInt(100)).
		Round(2)
	if req.GananciaSocio.Add(comision).GreaterThan(req.MontoProducto) {
		return nil, errors.New("ganancia_socio mas la comision excede el monto del producto")
	}

	var sala model.Sala
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		marcaWallet, err := s.walletRepo.FindByUsuarioIDTx(tx, marcaID)
		if err != nil {
			return errors.New("wallet de la marca no encontrada")
		}
		if marcaWallet.Disponible.LessThan(req.MontoProducto) {
			return ErrSaldoInsuficiente
		}

		sala = model.Sala{
			MarcaID:            marcaID,
			SocioID:            socioID,
			MontoProducto:      req.MontoProducto,
			GananciaSocio:      req.GananciaSocio,
			ComisionPlataforma: comision,
			Estado:             model.SalaAbierta,
		}
		if err := s.repo.CreateTx(tx, &sala); err != nil {
			return err
		}

		// Marca funds the escrow
		marcaWallet.Disponible = marcaWallet.Disponible.Sub(req.MontoProducto)
		marcaWallet.EnEscrow = marcaWallet.EnEscrow.Add(req.MontoProducto)
		if err := s.walletRepo.UpdateTx(tx, marcaWallet); err != nil {
			return err
		}
		salaRef := sala.ID
		if err := s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
			WalletID:     marcaWallet.ID,
			Tipo:         "fondeo_escrow",
			Monto:        req.MontoProducto.Neg(),
			Descripcion:  "Fondeo de sala",
			ReferenciaID: &salaRef,
		}); err != nil {
			return err
		}

		// Socio sees the pending ganancia as held
		socioWallet, err := s.walletRepo.FindByUsuarioIDTx(tx, socioID)
		if err != nil {
			return errors.New("wallet del socio no encontrada")
		}
		socioWallet.EnHold = socioWallet.EnHold.Add(req.GananciaSocio)
		if err := s.walletRepo.UpdateTx(tx, socioWallet); err != nil {
			return err
		}
		if err := s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
			WalletID:     socioWallet.ID,
			Tipo:         "fondeo_escrow",
			Monto:        req.GananciaSocio,
			Descripcion:  "Ganancia pendiente en sala",
			ReferenciaID: &salaRef,
		}); err != nil {
			return err
		}

		return s.repo.CreateEventoTx(tx, &model.EventoSala{
			SalaID:      sala.ID,
			Tipo:        model.EventoActualizacion,
			Descripcion: "Sala creada y fondeada",
			Autor:       model.RolMarca,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notificarSocio(ctx, socio, "Nueva sala abierta",
		fmt.Sprintf("La marca abrio una sala por $%s. Tu ganancia pactada es $%s.",
			sala.MontoProducto.StringFixed(2), sala.GananciaSocio.StringFixed(2)))

	return salaToResponse(&sala), nil
}

func (s *salaService) ObtenerSala(ctx context.Context, usuarioID, salaID uuid.UUID) (*dto.SalaResponse, error) {
	sala, err := s.repo.FindByID(ctx, salaID)
	if err != nil {
		return nil, ErrSalaNoEncontrada
	}
	if !esParte(sala, usuarioID) {
		return nil, ErrNoEsParte
	}
	return salaToResponse(sala), nil
}

func (s *salaService) ListarSalas(ctx context.Context, usuarioID uuid.UUID, filter dto.SalaFilter) (*dto.SalaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	salas, total, err := s.repo.ListByUsuario(ctx, usuarioID, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SalaResponse, 0, len(salas))
	for i := range salas {
		items = append(items, *salaToResponse(&salas[i]))
	}
	return &dto.SalaListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── EntregarEvidencia ─────────────────────────────────────────────────────────

func (s *salaService) EntregarEvidencia(ctx context.Context, socioID, salaID uuid.UUID, req dto.EntregarEvidenciaRequest) (*dto.SalaResponse, error) {
	sala, err := s.repo.FindByID(ctx, salaID)
	if err != nil {
		return nil, ErrSalaNoEncontrada
	}
	if sala.SocioID != socioID {
		return nil, errors.New("solo el socio de la sala puede entregar evidencia")
	}
	if sala.Estado != model.SalaAbierta {
		return nil, fmt.Errorf("la sala esta %s y no admite evidencia", sala.Estado)
	}

	sala.EvidenciaEntregada = true
	sala.EvidenciaArchivos = req.Archivos
	sala.EvidenciaNotas = req.Notas

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, sala); err != nil {
			return err
		}
		return s.repo.CreateEventoTx(tx, &model.EventoSala{
			SalaID:      sala.ID,
			Tipo:        model.EventoEvidencia,
			Descripcion: fmt.Sprintf("Evidencia entregada (%d archivos)", len(req.Archivos)),
			Autor:       model.RolSocio,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return salaToResponse(sala), nil
}

// ── AgregarEvento ─────────────────────────────────────────────────────────────

func (s *salaService) AgregarEvento(ctx context.Context, usuarioID uuid.UUID, username string, salaID uuid.UUID, req dto.AgregarEventoRequest) (*dto.SalaResponse, error) {
	sala, err := s.repo.FindByID(ctx, salaID)
	if err != nil {
		return nil, ErrSalaNoEncontrada
	}
	if !esParte(sala, usuarioID) {
		return nil, ErrNoEsParte
	}
	if sala.Estado != model.SalaAbierta && sala.Estado != model.SalaEnRevision {
		return nil, fmt.Errorf("la sala esta %s y no admite eventos", sala.Estado)
	}

	evento := &model.EventoSala{
		SalaID:      sala.ID,
		Tipo:        req.Tipo,
		Descripcion: req.Descripcion,
		Autor:       username,
	}
	if err := s.repo.CreateEvento(ctx, evento); err != nil {
		return nil, err
	}
	sala.Eventos = append(sala.Eventos, *evento)
	return salaToResponse(sala), nil
}

// ── CompletarSala ─────────────────────────────────────────────────────────────
// Happy path release, marca-initiated:
//   - socio: EnHold → Disponible (ganancia)
//   - marca: EnEscrow liberado, remanente vuelve a Disponible, comision cobrada
//   - both parties gain reputacion and a completed deal
//   - the socio's referrer accrues the recurring share of the platform fee

func (s *salaService) CompletarSala(ctx context.Context, marcaID, salaID uuid.UUID) (*dto.SalaResponse, error) {
	sala, err := s.repo.FindByID(ctx, salaID)
	if err != nil {
		return nil, ErrSalaNoEncontrada
	}
	if sala.MarcaID != marcaID {
		return nil, errors.New("solo la marca de la sala puede completarla")
	}
	if sala.Estado != model.SalaAbierta {
		return nil, fmt.Errorf("la sala esta %s y no puede completarse", sala.Estado)
	}
	if !sala.EvidenciaEntregada {
		return nil, errors.New("el socio aun no entrego evidencia de entrega")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		salaRef := sala.ID
		remanente := sala.MontoProducto.Sub(sala.GananciaSocio).Sub(sala.ComisionPlataforma)

		// Marca: release the escrow, pay the fee, recover the remainder
		marcaWallet, err := s.walletRepo.FindByUsuarioIDTx(tx, sala.MarcaID)
		if err != nil {
			return err
		}
		marcaWallet.EnEscrow = marcaWallet.EnEscrow.Sub(sala.MontoProducto)
		marcaWallet.Disponible = marcaWallet.Disponible.Add(remanente)
		marcaWallet.ComisionesPagadas = marcaWallet.ComisionesPagadas.Add(sala.ComisionPlataforma)
		if err := s.walletRepo.UpdateTx(tx, marcaWallet); err != nil {
			return err
		}
		if err := s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
			WalletID:     marcaWallet.ID,
			Tipo:         "liberacion",
			Monto:        remanente,
			Descripcion:  "Liberacion de sala completada",
			ReferenciaID: &salaRef,
		}); err != nil {
			return err
		}
		if err := s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
			WalletID:     marcaWallet.ID,
			Tipo:         "comision",
			Monto:        sala.ComisionPlataforma.Neg(),
			Descripcion:  "Comision de plataforma",
			ReferenciaID: &salaRef,
		}); err != nil {
			return err
		}

		// Socio: ganancia becomes available
		socioWallet, err := s.walletRepo.FindByUsuarioIDTx(tx, sala.SocioID)
		if err != nil {
			return err
		}
		socioWallet.EnHold = socioWallet.EnHold.Sub(sala.GananciaSocio)
		socioWallet.Disponible = socioWallet.Disponible.Add(sala.GananciaSocio)
		if err := s.walletRepo.UpdateTx(tx, socioWallet); err != nil {
			return err
		}
		if err := s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
			WalletID:     socioWallet.ID,
			Tipo:         "liberacion",
			Monto:        sala.GananciaSocio,
			Descripcion:  "Ganancia liberada por sala completada",
			ReferenciaID: &salaRef,
		}); err != nil {
			return err
		}

		// Reputacion and deal counters
		marca, err := s.usuarioRepo.FindByID(ctx, sala.MarcaID)
		if err != nil {
			return err
		}
		socio, err := s.usuarioRepo.FindByID(ctx, sala.SocioID)
		if err != nil {
			return err
		}
		marca.DealsCompletados++
		marca.Reputacion += 1
		socio.DealsCompletados++
		socio.Reputacion += 2
		if err := s.usuarioRepo.UpdateTx(tx, marca); err != nil {
			return err
		}
		if err := s.usuarioRepo.UpdateTx(tx, socio); err != nil {
			return err
		}

		// Recurring referral share over the platform fee
		if socio.ReferidoPorID != nil {
			if err := s.acreditarRecurrenteTx(tx, socio, sala.ComisionPlataforma, salaRef); err != nil {
				return err
			}
		}

		if err := cambiarEstado(sala, model.SalaResueltaCompleta); err != nil {
			return err
		}
		now := nowFn()
		sala.ClosedAt = &now
		if err := s.repo.UpdateTx(tx, sala); err != nil {
			return err
		}
		return s.repo.CreateEventoTx(tx, &model.EventoSala{
			SalaID:      sala.ID,
			Tipo:        model.EventoResolucion,
			Descripcion: "Sala completada, fondos liberados",
			Autor:       model.RolMarca,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	if socio, err := s.usuarioRepo.FindByID(ctx, sala.SocioID); err == nil {
		s.notificarSocio(ctx, socio, "Fondos liberados",
			fmt.Sprintf("Tu ganancia de $%s ya esta disponible.", sala.GananciaSocio.StringFixed(2)))
	}
	return salaToResponse(sala), nil
}

// acreditarRecurrenteTx pays the referrer their percentage of the platform fee
// and accrues it on the referral records.
func (s *salaService) acreditarRecurrenteTx(tx *gorm.DB, socio *model.Usuario, comision decimal.Decimal, salaRef uuid.UUID) error {
	ganancia := comision.
		Mul(decimal.NewFromFloat(s.cfg.ReferidoPctRecurrente)).
		Div(decimal.NewFromInt(100)).
		Round(2)
	if ganancia.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	referido, err := s.referidoRepo.FindReferidoByUsuarioTx(tx, socio.ID)
	if err != nil {
		return nil // referred user without a referral record: nothing to accrue
	}
	referido.GananciasRecurrentes = referido.GananciasRecurrentes.Add(ganancia)
	if err := s.referidoRepo.UpdateReferidoTx(tx, referido); err != nil {
		return err
	}

	referidorWallet, err := s.walletRepo.FindByUsuarioIDTx(tx, *socio.ReferidoPorID)
	if err != nil {
		return err
	}
	referidorWallet.Disponible = referidorWallet.Disponible.Add(ganancia)
	referidorWallet.GananciasReferido = referidorWallet.GananciasReferido.Add(ganancia)
	if err := s.walletRepo.UpdateTx(tx, referidorWallet); err != nil {
		return err
	}
	if err := s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
		WalletID:     referidorWallet.ID,
		Tipo:         "ganancia_referido",
		Monto:        ganancia,
		Descripcion:  "Participacion recurrente por referido",
		ReferenciaID: &salaRef,
	}); err != nil {
		return err
	}

	codigo, err := s.referidoRepo.FindCodigoByUsuarioTx(tx, *socio.ReferidoPorID)
	if err != nil {
		return nil
	}
	codigo.GananciasTotales = codigo.GananciasTotales.Add(ganancia)
	return s.referidoRepo.UpdateCodigoTx(tx, codigo)
}

// ── AbrirDisputa ──────────────────────────────────────────────────────────────
// Either party contests the sala. All contested funds move to EnDisputa and
// stay frozen until the resolution engine (or a mediator) decides.

func (s *salaService) AbrirDisputa(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirDisputaRequest) (*dto.DisputaResponse, error) {
	salaID, err := uuid.Parse(req.SalaID)
	if err != nil {
		return nil, fmt.Errorf("sala_id inválido: %w", err)
	}
	sala, err := s.repo.FindByID(ctx, salaID)
	if err != nil {
		return nil, ErrSalaNoEncontrada
	}
	if !esParte(sala, usuarioID) {
		return nil, ErrNoEsParte
	}
	if sala.Estado != model.SalaAbierta {
		return nil, fmt.Errorf("la sala esta %s y no admite disputas", sala.Estado)
	}
	if _, err := s.disputaRepo.FindActivaBySala(ctx, salaID); err == nil {
		return nil, errors.New("la sala ya tiene una disputa activa")
	}

	var disputa model.Disputa
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		salaRef := sala.ID

		// Freeze marca escrow
		marcaWallet, err := s.walletRepo.FindByUsuarioIDTx(tx, sala.MarcaID)
		if err != nil {
			return err
		}
		marcaWallet.EnEscrow = marcaWallet.EnEscrow.Sub(sala.MontoProducto)
		marcaWallet.EnDisputa = marcaWallet.EnDisputa.Add(sala.MontoProducto)
		if err := s.walletRepo.UpdateTx(tx, marcaWallet); err != nil {
			return err
		}
		if err := s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
			WalletID:     marcaWallet.ID,
			Tipo:         "disputa_retencion",
			Monto:        sala.MontoProducto.Neg(),
			Descripcion:  "Fondos retenidos por disputa",
			ReferenciaID: &salaRef,
		}); err != nil {
			return err
		}

		// Freeze socio hold
		socioWallet, err := s.walletRepo.FindByUsuarioIDTx(tx, sala.SocioID)
		if err != nil {
			return err
		}
		socioWallet.EnHold = socioWallet.EnHold.Sub(sala.GananciaSocio)
		socioWallet.EnDisputa = socioWallet.EnDisputa.Add(sala.GananciaSocio)
		if err := s.walletRepo.UpdateTx(tx, socioWallet); err != nil {
			return err
		}
		if err := s.walletRepo.CreateMovimientoTx(tx, &model.MovimientoWallet{
			WalletID:     socioWallet.ID,
			Tipo:         "disputa_retencion",
			Monto:        sala.GananciaSocio.Neg(),
			Descripcion:  "Ganancia retenida por disputa",
			ReferenciaID: &salaRef,
		}); err != nil {
			return err
		}

		disputa = model.Disputa{
			SalaID:        sala.ID,
			IniciadaPorID: usuarioID,
			Motivo:        req.Motivo,
			Estado:        model.DisputaAbierta,
		}
		if err := s.disputaRepo.CreateTx(tx, &disputa); err != nil {
			return err
		}

		if err := cambiarEstado(sala, model.SalaEnRevision); err != nil {
			return err
		}
		if err := s.repo.UpdateTx(tx, sala); err != nil {
			return err
		}
		autor := model.RolMarca
		if usuarioID == sala.SocioID {
			autor = model.RolSocio
		}
		return s.repo.CreateEventoTx(tx, &model.EventoSala{
			SalaID:      sala.ID,
			Tipo:        model.EventoDisputa,
			Descripcion: "Disputa abierta: " + req.Motivo,
			Autor:       autor,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	// Notify the counterparty
	otraParte := sala.MarcaID
	if usuarioID == sala.MarcaID {
		otraParte = sala.SocioID
	}
	if u, err := s.usuarioRepo.FindByID(ctx, otraParte); err == nil {
		s.notificarSocio(ctx, u, "Disputa abierta",
			"Se abrio una disputa sobre una de tus salas. Los fondos quedan retenidos hasta la resolucion.")
	}

	return disputaToResponse(&disputa), nil
}

func (s *salaService) notificarSocio(ctx context.Context, u *model.Usuario, subject, body string) {
	if s.dispatcher == nil || u.Email == nil || *u.Email == "" {
		return
	}
	_ = s.dispatcher.EnqueueNotificacion(ctx, worker.NotificacionJobPayload{
		ToEmail: *u.Email,
		Subject: subject,
		Body:    body,
	})
}

// cambiarEstado validates the transition against the sala state table.
func cambiarEstado(sala *model.Sala, destino model.EstadoSala) error {
	if !sala.Estado.PuedeTransicionarA(destino) {
		return fmt.Errorf("transicion de sala invalida: %s → %s", sala.Estado, destino)
	}
	sala.Estado = destino
	return nil
}

func esParte(sala *model.Sala, usuarioID uuid.UUID) bool {
	return sala.MarcaID == usuarioID || sala.SocioID == usuarioID
}

func salaToResponse(sala *model.Sala) *dto.SalaResponse {
	eventos := make([]dto.EventoResponse, 0, len(sala.Eventos))
	for _, e := range sala.Eventos {
		eventos = append(eventos, dto.EventoResponse{
			ID:          e.ID.String(),
			Tipo:        e.Tipo,
			Descripcion: e.Descripcion,
			Autor:       e.Autor,
			Timestamp:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	resp := &dto.SalaResponse{
		ID:                 sala.ID.String(),
		MarcaID:            sala.MarcaID.String(),
		SocioID:            sala.SocioID.String(),
		MontoProducto:      sala.MontoProducto,
		GananciaSocio:      sala.GananciaSocio,
		ComisionPlataforma: sala.ComisionPlataforma,
		EvidenciaEntregada: sala.EvidenciaEntregada,
		EvidenciaArchivos:  sala.EvidenciaArchivos,
		EvidenciaNotas:     sala.EvidenciaNotas,
		Estado:             string(sala.Estado),
		Eventos:            eventos,
		CreatedAt:          sala.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if sala.ClosedAt != nil {
		closed := sala.ClosedAt.Format("2006-01-02T15:04:05Z")
		resp.ClosedAt = &closed
	}
	return resp
}

func disputaToResponse(d *model.Disputa) *dto.DisputaResponse {
	resp := &dto.DisputaResponse{
		ID:                     d.ID.String(),
		SalaID:                 d.SalaID.String(),
		IniciadaPor:            d.IniciadaPorID.String(),
		Motivo:                 d.Motivo,
		Estado:                 string(d.Estado),
		Resolution:             d.Resolution,
		RequiereRevisionHumana: d.RequiereRevisionHumana,
		CreatedAt:              d.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if d.AnalisisAuto != nil {
		resp.Puntajes = &dto.PuntajesResponse{
			Evidencia:    d.AnalisisAuto.PuntajeEvidencia,
			Historial:    d.AnalisisAuto.PuntajeHistorial,
			Comunicacion: d.AnalisisAuto.PuntajeComunicacion,
			Ponderado:    d.AnalisisAuto.PuntajePonderado,
		}
	}
	if d.SLAVence != nil {
		v := d.SLAVence.Format("2006-01-02T15:04:05Z")
		resp.SLAVence = &v
	}
	if d.ResolvedAt != nil {
		r := d.ResolvedAt.Format("2006-01-02T15:04:05Z")
		resp.ResolvedAt = &r
	}
	return resp
}
