package service

// In-memory repository fakes. DB() returns nil so runTx executes the
// transaction body directly, which keeps these tests free of Postgres.

import (
	"context"
	"errors"
	"time"

	"partth/internal/model"
	"partth/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errNotFound = errors.New("not found")

// ── UsuarioRepository ────────────────────────────────────────────────────────

type memUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

var _ repository.UsuarioRepository = (*memUsuarioRepo)(nil)

func newMemUsuarioRepo() *memUsuarioRepo {
	return &memUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *memUsuarioRepo) add(u *model.Usuario) *model.Usuario {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return u
}

func (r *memUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.add(u)
	return nil
}

func (r *memUsuarioRepo) CreateTx(_ *gorm.DB, u *model.Usuario) error {
	r.add(u)
	return nil
}

func (r *memUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (r *memUsuarioRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Usuario, error) {
	return r.FindByID(context.Background(), id)
}

func (r *memUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *memUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *memUsuarioRepo) UpdateTx(_ *gorm.DB, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *memUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = false
	}
	return nil
}

func (r *memUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = true
	}
	return nil
}

func (r *memUsuarioRepo) DB() *gorm.DB { return nil }

// ── WalletRepository ─────────────────────────────────────────────────────────

type memWalletRepo struct {
	wallets     map[uuid.UUID]*model.Wallet // keyed by UsuarioID
	movimientos []model.MovimientoWallet
}

var _ repository.WalletRepository = (*memWalletRepo)(nil)

func newMemWalletRepo() *memWalletRepo {
	return &memWalletRepo{wallets: make(map[uuid.UUID]*model.Wallet)}
}

func (r *memWalletRepo) add(w *model.Wallet) *model.Wallet {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.wallets[w.UsuarioID] = w
	return w
}

func (r *memWalletRepo) Create(_ context.Context, w *model.Wallet) error {
	r.add(w)
	return nil
}

func (r *memWalletRepo) CreateTx(_ *gorm.DB, w *model.Wallet) error {
	r.add(w)
	return nil
}

func (r *memWalletRepo) FindByUsuarioID(_ context.Context, usuarioID uuid.UUID) (*model.Wallet, error) {
	w, ok := r.wallets[usuarioID]
	if !ok {
		return nil, errNotFound
	}
	return w, nil
}

func (r *memWalletRepo) FindByUsuarioIDTx(_ *gorm.DB, usuarioID uuid.UUID) (*model.Wallet, error) {
	w, ok := r.wallets[usuarioID]
	if !ok {
		return nil, errNotFound
	}
	return w, nil
}

func (r *memWalletRepo) UpdateTx(_ *gorm.DB, w *model.Wallet) error {
	r.wallets[w.UsuarioID] = w
	return nil
}

func (r *memWalletRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoWallet) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *memWalletRepo) ListMovimientos(_ context.Context, walletID uuid.UUID, page, limit int) ([]model.MovimientoWallet, int64, error) {
	var out []model.MovimientoWallet
	for _, m := range r.movimientos {
		if m.WalletID == walletID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memWalletRepo) movimientosDe(walletID uuid.UUID, tipo string) []model.MovimientoWallet {
	var out []model.MovimientoWallet
	for _, m := range r.movimientos {
		if m.WalletID == walletID && m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

// ── SalaRepository ───────────────────────────────────────────────────────────

type memSalaRepo struct {
	salas   map[uuid.UUID]*model.Sala
	eventos []model.EventoSala
}

var _ repository.SalaRepository = (*memSalaRepo)(nil)

func newMemSalaRepo() *memSalaRepo {
	return &memSalaRepo{salas: make(map[uuid.UUID]*model.Sala)}
}

func (r *memSalaRepo) add(s *model.Sala) *model.Sala {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.salas[s.ID] = s
	return s
}

func (r *memSalaRepo) Create(_ context.Context, s *model.Sala) error {
	r.add(s)
	return nil
}

func (r *memSalaRepo) CreateTx(_ *gorm.DB, s *model.Sala) error {
	r.add(s)
	return nil
}

func (r *memSalaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sala, error) {
	s, ok := r.salas[id]
	if !ok {
		return nil, errNotFound
	}
	s.Eventos = nil
	for _, e := range r.eventos {
		if e.SalaID == id {
			s.Eventos = append(s.Eventos, e)
		}
	}
	return s, nil
}

func (r *memSalaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Sala, error) {
	return r.FindByID(context.Background(), id)
}

func (r *memSalaRepo) Update(_ context.Context, s *model.Sala) error {
	r.salas[s.ID] = s
	return nil
}

func (r *memSalaRepo) UpdateTx(_ *gorm.DB, s *model.Sala) error {
	r.salas[s.ID] = s
	return nil
}

func (r *memSalaRepo) CreateEvento(_ context.Context, e *model.EventoSala) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.eventos = append(r.eventos, *e)
	return nil
}

func (r *memSalaRepo) CreateEventoTx(_ *gorm.DB, e *model.EventoSala) error {
	return r.CreateEvento(context.Background(), e)
}

func (r *memSalaRepo) ListByUsuario(_ context.Context, usuarioID uuid.UUID, page, limit int) ([]model.Sala, int64, error) {
	var out []model.Sala
	for _, s := range r.salas {
		if s.MarcaID == usuarioID || s.SocioID == usuarioID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memSalaRepo) DB() *gorm.DB { return nil }

// ── DisputaRepository ────────────────────────────────────────────────────────

type memDisputaRepo struct {
	disputas map[uuid.UUID]*model.Disputa
	// estados saved through Update/UpdateTx, in order
	transiciones []model.EstadoDisputa
}

var _ repository.DisputaRepository = (*memDisputaRepo)(nil)

func newMemDisputaRepo() *memDisputaRepo {
	return &memDisputaRepo{disputas: make(map[uuid.UUID]*model.Disputa)}
}

func (r *memDisputaRepo) add(d *model.Disputa) *model.Disputa {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	r.disputas[d.ID] = d
	return d
}

func (r *memDisputaRepo) Create(_ context.Context, d *model.Disputa) error {
	r.add(d)
	return nil
}

func (r *memDisputaRepo) CreateTx(_ *gorm.DB, d *model.Disputa) error {
	r.add(d)
	return nil
}

func (r *memDisputaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Disputa, error) {
	d, ok := r.disputas[id]
	if !ok {
		return nil, errNotFound
	}
	return d, nil
}

// FindByIDTx reads the committed store, like the row lock re-read does: a
// caller holding a stale copy sees what the last transaction left behind.
func (r *memDisputaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Disputa, error) {
	return r.FindByID(context.Background(), id)
}

func (r *memDisputaRepo) FindActivaBySala(_ context.Context, salaID uuid.UUID) (*model.Disputa, error) {
	for _, d := range r.disputas {
		if d.SalaID == salaID && !d.Estado.EsTerminal() {
			return d, nil
		}
	}
	return nil, errNotFound
}

func (r *memDisputaRepo) Update(_ context.Context, d *model.Disputa) error {
	r.transiciones = append(r.transiciones, d.Estado)
	r.disputas[d.ID] = d
	return nil
}

func (r *memDisputaRepo) UpdateTx(_ *gorm.DB, d *model.Disputa) error {
	r.transiciones = append(r.transiciones, d.Estado)
	r.disputas[d.ID] = d
	return nil
}

func (r *memDisputaRepo) ListMediacionVencidas(_ context.Context, now time.Time, limit int) ([]model.Disputa, error) {
	var out []model.Disputa
	for _, d := range r.disputas {
		if d.Estado == model.DisputaEnMediacion && !d.SLAAvisado &&
			d.SLAVence != nil && d.SLAVence.Before(now) {
			out = append(out, *d)
		}
	}
	return out, nil
}

// ── ReferidoRepository ───────────────────────────────────────────────────────

type memReferidoRepo struct {
	codigos   map[uuid.UUID]*model.CodigoReferido
	referidos map[uuid.UUID]*model.Referido // keyed by referred UsuarioID
}

var _ repository.ReferidoRepository = (*memReferidoRepo)(nil)

func newMemReferidoRepo() *memReferidoRepo {
	return &memReferidoRepo{
		codigos:   make(map[uuid.UUID]*model.CodigoReferido),
		referidos: make(map[uuid.UUID]*model.Referido),
	}
}

func (r *memReferidoRepo) CreateCodigo(_ context.Context, c *model.CodigoReferido) error {
	for _, existing := range r.codigos {
		if existing.Codigo == c.Codigo {
			return errors.New("duplicate codigo")
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.codigos[c.ID] = c
	return nil
}

func (r *memReferidoRepo) FindCodigo(_ context.Context, codigo string) (*model.CodigoReferido, error) {
	for _, c := range r.codigos {
		if c.Codigo == codigo {
			return c, nil
		}
	}
	return nil, errNotFound
}

func (r *memReferidoRepo) FindCodigoByUsuario(_ context.Context, usuarioID uuid.UUID) (*model.CodigoReferido, error) {
	for _, c := range r.codigos {
		if c.UsuarioID == usuarioID {
			return c, nil
		}
	}
	return nil, errNotFound
}

func (r *memReferidoRepo) FindCodigoByUsuarioTx(_ *gorm.DB, usuarioID uuid.UUID) (*model.CodigoReferido, error) {
	return r.FindCodigoByUsuario(context.Background(), usuarioID)
}

func (r *memReferidoRepo) UpdateCodigoTx(_ *gorm.DB, c *model.CodigoReferido) error {
	r.codigos[c.ID] = c
	return nil
}

func (r *memReferidoRepo) CreateReferidoTx(_ *gorm.DB, ref *model.Referido) error {
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	ref.CreatedAt = time.Now()
	r.referidos[ref.UsuarioID] = ref
	return nil
}

func (r *memReferidoRepo) FindReferidoByUsuario(_ context.Context, usuarioID uuid.UUID) (*model.Referido, error) {
	ref, ok := r.referidos[usuarioID]
	if !ok {
		return nil, errNotFound
	}
	return ref, nil
}

func (r *memReferidoRepo) FindReferidoByUsuarioTx(_ *gorm.DB, usuarioID uuid.UUID) (*model.Referido, error) {
	return r.FindReferidoByUsuario(context.Background(), usuarioID)
}

func (r *memReferidoRepo) UpdateReferidoTx(_ *gorm.DB, ref *model.Referido) error {
	r.referidos[ref.UsuarioID] = ref
	return nil
}

func (r *memReferidoRepo) ListReferidos(_ context.Context, codigoID uuid.UUID) ([]model.Referido, error) {
	var out []model.Referido
	for _, ref := range r.referidos {
		if ref.CodigoReferidoID == codigoID {
			out = append(out, *ref)
		}
	}
	return out, nil
}
