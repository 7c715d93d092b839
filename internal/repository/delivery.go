package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parcelbee/internal/apperr"
	"parcelbee/internal/domain"
	"parcelbee/internal/ports/deliverytx"
)

// DeliveryRepo represents delivery repository.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

const deliveryColumns = `
    d.id, d.customer_id, d.partner_id, d.pickup_address, d.drop_address,
    d.pickup_lat, d.pickup_lng, d.drop_lat, d.drop_lng,
    d.description, d.weight_kg, d.estimated_price, d.status,
    d.created_at, d.updated_at, d.accepted_at, d.delivered_at`

const viewColumns = deliveryColumns + `,
    c.name, c.email, c.phone,
    p.id, p.name, p.email, p.phone`

const viewFrom = `
    FROM delivery_requests d
    JOIN users c ON c.id = d.customer_id
    LEFT JOIN users p ON p.id = d.partner_id`

func deliveryDest(d *domain.DeliveryRequest) []any {
	return []any{
		&d.ID, &d.CustomerID, &d.PartnerID, &d.PickupAddress, &d.DropAddress,
		&d.Coordinates.PickupLat, &d.Coordinates.PickupLng, &d.Coordinates.DropLat, &d.Coordinates.DropLng,
		&d.Description, &d.WeightKg, &d.EstimatedPrice, &d.Status,
		&d.CreatedAt, &d.UpdatedAt, &d.AcceptedAt, &d.DeliveredAt,
	}
}

func scanView(row pgx.Row) (*domain.DeliveryView, error) {
	var (
		v            domain.DeliveryView
		partnerID    *int64
		partnerName  *string
		partnerEmail *string
		partnerPhone *string
	)
	dest := append(deliveryDest(&v.DeliveryRequest),
		&v.Customer.Name, &v.Customer.Email, &v.Customer.Phone,
		&partnerID, &partnerName, &partnerEmail, &partnerPhone,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	v.Customer.ID = v.CustomerID
	if partnerID != nil {
		v.Partner = &domain.UserRef{ID: *partnerID, Phone: partnerPhone}
		if partnerName != nil {
			v.Partner.Name = *partnerName
		}
		if partnerEmail != nil {
			v.Partner.Email = *partnerEmail
		}
	}
	return &v, nil
}

// Create - inserts a new delivery request and fills its ID.
func (r *DeliveryRepo) Create(ctx context.Context, d *domain.DeliveryRequest) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO delivery_requests (
            customer_id, pickup_address, drop_address,
            pickup_lat, pickup_lng, drop_lat, drop_lng,
            description, weight_kg, estimated_price, status,
            created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id
    `,
		d.CustomerID, d.PickupAddress, d.DropAddress,
		d.Coordinates.PickupLat, d.Coordinates.PickupLng, d.Coordinates.DropLat, d.Coordinates.DropLng,
		d.Description, d.WeightKg, d.EstimatedPrice, string(d.Status),
		d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
	if err != nil {
		switch {
		case IsMissingReference(err):
			return fmt.Errorf("insert delivery: customer %d: %w", d.CustomerID, apperr.ErrNotFound)
		case IsCheckFailure(err):
			return fmt.Errorf("insert delivery: %w", apperr.Invalid("delivery violates a table constraint"))
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// GetView - returns the delivery with its customer and partner, or nil.
func (r *DeliveryRepo) GetView(ctx context.Context, id int64) (*domain.DeliveryView, error) {
	v, err := scanView(r.db.QueryRow(ctx, `SELECT `+viewColumns+viewFrom+` WHERE d.id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %d: %w", id, err)
	}
	return v, nil
}

// List returns the deliveries in scope, most recent first.
func (r *DeliveryRepo) List(ctx context.Context, scope domain.ListScope) ([]domain.DeliveryView, error) {
	out := make([]domain.DeliveryView, 0)
	if scope.Empty() {
		return out, nil
	}

	where, args := scopeFilter(scope)
	q := `SELECT ` + viewColumns + viewFrom + where + ` ORDER BY d.created_at DESC, d.id DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// scopeFilter renders the union of a ListScope as a WHERE clause.
func scopeFilter(scope domain.ListScope) (string, []any) {
	if scope.All {
		return "", nil
	}
	var (
		parts []string
		args  []any
	)
	if scope.CustomerID != nil {
		args = append(args, *scope.CustomerID)
		parts = append(parts, fmt.Sprintf("d.customer_id = $%d", len(args)))
	}
	if scope.PartnerID != nil {
		args = append(args, *scope.PartnerID)
		parts = append(parts, fmt.Sprintf("d.partner_id = $%d", len(args)))
	}
	if scope.Unassigned {
		parts = append(parts, "(d.status = 'pending' AND d.partner_id IS NULL)")
	}
	return " WHERE " + strings.Join(parts, " OR "), args
}

// Stats - counts deliveries per status.
func (r *DeliveryRepo) Stats(ctx context.Context) (domain.DeliveryStats, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM delivery_requests GROUP BY status`)
	if err != nil {
		return domain.DeliveryStats{}, fmt.Errorf("delivery stats: %w", err)
	}
	defer rows.Close()

	stats := domain.DeliveryStats{ByStatus: make(map[domain.DeliveryStatus]int64, len(domain.AllStatuses))}
	for _, s := range domain.AllStatuses {
		stats.ByStatus[s] = 0
	}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return domain.DeliveryStats{}, fmt.Errorf("scan delivery stats: %w", err)
		}
		stats.ByStatus[domain.DeliveryStatus(status)] = n
		stats.Total += n
	}
	return stats, rows.Err()
}

// WithTx opens a transaction and executes fn within it.
func (r *DeliveryRepo) WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

// GetForUpdate - loads a delivery and locks its row.
func (r *TxRepo) GetForUpdate(ctx context.Context, id int64) (*domain.DeliveryRequest, error) {
	var d domain.DeliveryRequest
	err := r.tx.QueryRow(ctx, `
        SELECT `+deliveryColumns+`
        FROM delivery_requests d
        WHERE d.id = $1
        FOR UPDATE
    `, id).Scan(deliveryDest(&d)...)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock delivery %d: %w", id, err)
	}
	return &d, nil
}

// MarkAccepted - stores the acceptance of d if the row is still pending and unassigned.
func (r *TxRepo) MarkAccepted(ctx context.Context, d *domain.DeliveryRequest) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_requests
        SET partner_id = $2,
            status = $3,
            accepted_at = $4,
            updated_at = $5
        WHERE id = $1
          AND status = 'pending'
          AND partner_id IS NULL
    `, d.ID, d.PartnerID, string(d.Status), d.AcceptedAt, d.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("accept delivery %d: %w", d.ID, err)
	}
	return ct.RowsAffected() == 1, nil
}

// SaveStatus - writes the status fields of d.
func (r *TxRepo) SaveStatus(ctx context.Context, d *domain.DeliveryRequest) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE delivery_requests
        SET status = $2,
            updated_at = $3,
            delivered_at = $4
        WHERE id = $1
    `, d.ID, string(d.Status), d.UpdatedAt, d.DeliveredAt)
	if err != nil {
		return fmt.Errorf("update delivery status %d: %w", d.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("delivery %d not found", d.ID)
	}
	return nil
}
