package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

// CreateTransaction сохраняет pending-транзакцию для новой checkout-сессии.
func (s *Storage) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	const op = "storage.CreateTransaction"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	query := `
		INSERT INTO payment_transactions (id, session_id, user_id, user_email, amount, currency, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	err := s.DB.QueryRowContext(ctx, query,
		tx.ID, tx.SessionID, tx.UserID, tx.UserEmail, tx.Amount, tx.Currency, string(tx.PaymentStatus)).
		Scan(&tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetTransaction возвращает транзакцию по id checkout-сессии.
func (s *Storage) GetTransaction(ctx context.Context, sessionID string) (*models.Transaction, error) {
	const op = "storage.GetTransaction"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	query := `
		SELECT id, session_id, user_id, user_email, amount, currency, payment_status, created_at, paid_at
		FROM payment_transactions WHERE session_id = $1`
	var t models.Transaction
	err := s.DB.QueryRowContext(ctx, query, sessionID).Scan(&t.ID, &t.SessionID, &t.UserID, &t.UserEmail,
		&t.Amount, &t.Currency, &t.PaymentStatus, &t.CreatedAt, &t.PaidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// ApplyPaidCheckout переводит транзакцию в paid и выдаёт пользователю VIP в одной
// транзакции БД. Условный upsert пропускает строку, уже находящуюся в paid, поэтому
// из конкурирующих вызовов (опрос и webhook) выдачу выполняет ровно один.
// Сессия без локальной записи вставляется сразу оплаченной.
func (s *Storage) ApplyPaidCheckout(ctx context.Context, pc models.PaidCheckout) (applied bool, err error) {
	const op = "storage.ApplyPaidCheckout"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}
	if _, err := uuid.Parse(pc.UserID); err != nil {
		return false, fmt.Errorf("%s: user %q: %w", op, pc.UserID, apperr.ErrNotFound)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	upsert := `
		INSERT INTO payment_transactions
			(id, session_id, user_id, user_email, amount, currency, payment_status, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'paid', NOW())
		ON CONFLICT (session_id) DO UPDATE
			SET payment_status = 'paid', paid_at = NOW()
			WHERE payment_transactions.payment_status <> 'paid'
		RETURNING id`
	var txID string
	err = tx.QueryRowContext(ctx, upsert,
		uuid.New().String(), pc.SessionID, pc.UserID, pc.Email, pc.Amount, pc.Currency).Scan(&txID)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		_ = tx.Rollback()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET is_vip = true, subscription_status = $2, subscription_id = $3
		WHERE id = $1`, pc.UserID, string(models.SubscriptionActive), pc.SessionID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		err = fmt.Errorf("%s: user %s: %w", op, pc.UserID, apperr.ErrNotFound)
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}
