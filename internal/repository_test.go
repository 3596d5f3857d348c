package internal_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/shopspring/decimal"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/DrGermanius/ExpressWash/internal"
	"github.com/DrGermanius/ExpressWash/internal/model"
)

var orderColumns = []string{
	"id", "receipt_number", "customer_name", "mobile_number", "order_date",
	"regular_clothes_kg", "blankets_kg", "white_clothes_pieces", "total_amount",
	"created_at", "collection_date",
}

// decimalArg matches a decimal argument after the driver converted it.
type decimalArg string

func (a decimalArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	d, err := decimal.NewFromString(s)
	return err == nil && d.Equal(decimal.RequireFromString(string(a)))
}

var _ = Describe("Repository", func() {
	var (
		ctx       context.Context
		repo      internal.IRepository
		mock      sqlmock.Sqlmock
		orderDate time.Time
		createdAt time.Time
	)
	BeforeEach(func() {
		ctx = context.Background()
		orderDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		createdAt = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

		db, m, err := sqlmock.New()
		Expect(err).ShouldNot(HaveOccurred())
		mock = m

		repo = internal.Repository{
			Conn:    db,
			Pricing: pricing(),
			Timeout: time.Second,
			Logger:  sugar(),
		}
	})
	AfterEach(func() {
		err := mock.ExpectationsWereMet()
		Expect(err).ShouldNot(HaveOccurred())
	})
	pendingRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(orderColumns).
			AddRow(1, "A-51", "Jane Doe", "9876543210", orderDate, "2.5", "0", int64(3), "245", createdAt, nil)
	}
	Context("Repository tests", func() {
		It("Insert without error", func() {
			o := newOrder("A-51", "Jane Doe", model.Quantities{RegularClothesKg: dec("2.5"), WhiteClothesPieces: 3})

			mock.ExpectQuery("INSERT INTO orders (.+) RETURNING id, created_at").
				WithArgs("A-51", "Jane Doe", "9876543210", sqlmock.AnyArg(), decimalArg("2.5"), decimalArg("0"), int64(3), decimalArg("245")).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, createdAt))

			res, err := repo.Insert(ctx, o)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(res.ID).Should(Equal(1))
			Expect(res.CreatedAt).Should(Equal(createdAt))
		})
		It("Insert with duplicate receipt number", func() {
			mock.ExpectQuery("INSERT INTO orders").
				WillReturnError(&pgconn.PgError{Code: "23505"})

			_, err := repo.Insert(ctx, newOrder("A-51", "Jane Doe", model.Quantities{}))
			Expect(err).Should(MatchError(internal.ErrDuplicateReceiptNumber))
		})
		It("Insert with unreachable store", func() {
			mock.ExpectQuery("INSERT INTO orders").
				WillReturnError(errors.New("dial tcp: connection refused"))

			_, err := repo.Insert(ctx, newOrder("A-51", "Jane Doe", model.Quantities{}))
			Expect(err).Should(MatchError(internal.ErrStoreUnavailable))
		})
		It("FindByID without error", func() {
			mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = \\$1").
				WithArgs(1).WillReturnRows(pendingRow())

			o, err := repo.FindByID(ctx, 1)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(o.ReceiptNumber).Should(Equal("A-51"))
			Expect(o.RegularClothesKg.Equal(dec("2.5"))).Should(BeTrue())
			Expect(o.TotalAmount.Equal(dec("245"))).Should(BeTrue())
			Expect(o.CollectionDate).Should(BeNil())
		})
		It("FindByReceiptNumber not found", func() {
			mock.ExpectQuery("SELECT (.+) FROM orders WHERE receipt_number = \\$1").
				WithArgs("nope").WillReturnRows(sqlmock.NewRows(orderColumns))

			_, err := repo.FindByReceiptNumber(ctx, "nope")
			Expect(err).Should(MatchError(internal.ErrNotFound))
		})
		It("Update recomputes the total", func() {
			regular, blankets, white := dec("3.0"), dec("1.0"), int64(2)

			mock.ExpectBegin()
			mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = \\$1 FOR UPDATE").
				WithArgs(1).WillReturnRows(pendingRow())
			mock.ExpectExec("UPDATE orders SET (.+) WHERE id = \\$8").
				WithArgs("Jane Doe", "9876543210", sqlmock.AnyArg(), decimalArg("3"), decimalArg("1"), int64(2), decimalArg("330"), 1).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			o, err := repo.Update(ctx, 1, model.OrderPatch{RegularClothesKg: &regular, BlanketsKg: &blankets, WhiteClothesPieces: &white})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(o.TotalAmount.Equal(dec("330"))).Should(BeTrue())
		})
		It("Update of a collected order", func() {
			name := "Jane Smith"

			mock.ExpectBegin()
			mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = \\$1 FOR UPDATE").
				WithArgs(1).
				WillReturnRows(sqlmock.NewRows(orderColumns).
					AddRow(1, "A-51", "Jane Doe", "", orderDate, "2.5", "0", int64(3), "245", createdAt, createdAt.Add(time.Hour)))
			mock.ExpectRollback()

			_, err := repo.Update(ctx, 1, model.OrderPatch{CustomerName: &name})
			Expect(err).Should(MatchError(internal.ErrOrderCollected))
		})
		It("MarkCollected without error", func() {
			at := createdAt.Add(24 * time.Hour)

			mock.ExpectQuery("UPDATE orders SET collection_date = \\$1 WHERE receipt_number = \\$2 AND collection_date IS NULL RETURNING (.+)").
				WithArgs(at, "A-51").
				WillReturnRows(sqlmock.NewRows(orderColumns).
					AddRow(1, "A-51", "Jane Doe", "9876543210", orderDate, "2.5", "0", int64(3), "245", createdAt, at))

			o, err := repo.MarkCollected(ctx, "A-51", at)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(o.CollectionDate).ShouldNot(BeNil())
			Expect(o.CollectionDate.Equal(at)).Should(BeTrue())
		})
		It("MarkCollected of a collected order", func() {
			mock.ExpectQuery("UPDATE orders SET collection_date").
				WillReturnRows(sqlmock.NewRows(orderColumns))
			mock.ExpectQuery("SELECT EXISTS").
				WithArgs("A-51").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

			_, err := repo.MarkCollected(ctx, "A-51", time.Now())
			Expect(err).Should(MatchError(internal.ErrAlreadyCollected))
		})
		It("MarkCollected of an unknown order", func() {
			mock.ExpectQuery("UPDATE orders SET collection_date").
				WillReturnRows(sqlmock.NewRows(orderColumns))
			mock.ExpectQuery("SELECT EXISTS").
				WithArgs("does-not-exist").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

			_, err := repo.MarkCollected(ctx, "does-not-exist", time.Now())
			Expect(err).Should(MatchError(internal.ErrOrderNotFound))
		})
		It("Delete of an unknown order", func() {
			mock.ExpectExec("DELETE FROM orders WHERE id = \\$1").
				WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 0))

			Expect(repo.Delete(ctx, 5)).Should(MatchError(internal.ErrNotFound))
		})
		It("ListAll with filters", func() {
			mock.ExpectQuery("SELECT (.+) FROM orders WHERE \\(strpos(.+)\\) AND collection_date IS NULL ORDER BY created_at DESC, id DESC").
				WithArgs("a-5").WillReturnRows(pendingRow()).RowsWillBeClosed()

			orders, err := repo.ListAll(ctx, model.OrderFilter{Search: "A-5", Status: model.OrderStatusPending})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(orders).Should(HaveLen(1))
		})
		It("ListAll with error", func() {
			mock.ExpectQuery("SELECT (.+) FROM orders ORDER BY created_at DESC, id DESC").
				WillReturnError(errors.New("some error"))

			_, err := repo.ListAll(ctx, model.OrderFilter{})
			Expect(err).Should(MatchError(internal.ErrStoreUnavailable))
		})
		It("LastReceiptNumber without rows", func() {
			mock.ExpectQuery("SELECT receipt_number FROM orders WHERE starts_with").
				WithArgs("RW-20240115-").WillReturnRows(sqlmock.NewRows([]string{"receipt_number"}))

			last, err := repo.LastReceiptNumber(ctx, "RW-20240115-")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(last).Should(BeEmpty())
		})
	})
})
