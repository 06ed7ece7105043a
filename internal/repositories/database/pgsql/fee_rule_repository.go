package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	portsrepo "github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
)

type PgxFeeRuleRepository struct {
	BaseRepository
}

// newPgxFeeRuleRepository creates a new repository for the fee schedule.
func newPgxFeeRuleRepository(pool Pool) portsrepo.FeeRuleRepository {
	return &PgxFeeRuleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FeeRuleRepository = (*PgxFeeRuleRepository)(nil)

func (r *PgxFeeRuleRepository) SaveFeeRule(ctx context.Context, rule domain.FeeRule) error {
	query := `
		INSERT INTO fee_rules (rule_id, transaction_type, max_amount, fee_amount)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query, rule.RuleID, string(rule.TransactionType), rule.MaxAmount, rule.FeeAmount)
	if err != nil {
		return fmt.Errorf("failed to insert fee rule %s: %w", rule.RuleID, translateError(err))
	}
	return nil
}

// ListFeeRulesByType returns the bands for one transaction type in ascending
// ceiling order, the order the fee lookup scans them in.
func (r *PgxFeeRuleRepository) ListFeeRulesByType(ctx context.Context, transactionType domain.TransactionType) ([]domain.FeeRule, error) {
	query := `
		SELECT rule_id, transaction_type, max_amount, fee_amount
		FROM fee_rules
		WHERE transaction_type = $1
		ORDER BY max_amount ASC;
	`
	rows, err := r.Pool.Query(ctx, query, string(transactionType))
	if err != nil {
		return nil, fmt.Errorf("failed to list fee rules: %w", translateError(err))
	}
	defer rows.Close()
	return scanFeeRules(rows)
}

func (r *PgxFeeRuleRepository) ListFeeRules(ctx context.Context) ([]domain.FeeRule, error) {
	query := `
		SELECT rule_id, transaction_type, max_amount, fee_amount
		FROM fee_rules
		ORDER BY transaction_type, max_amount ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee rules: %w", translateError(err))
	}
	defer rows.Close()
	return scanFeeRules(rows)
}

func scanFeeRules(rows pgx.Rows) ([]domain.FeeRule, error) {
	rules := make([]domain.FeeRule, 0)
	for rows.Next() {
		var (
			rule            domain.FeeRule
			transactionType string
		)
		if err := rows.Scan(&rule.RuleID, &transactionType, &rule.MaxAmount, &rule.FeeAmount); err != nil {
			return nil, translateError(err)
		}
		rule.TransactionType = domain.TransactionType(transactionType)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return rules, nil
}
