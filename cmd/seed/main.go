// seed carga un feed CSV de vendedores: cada fila se registra como publicación pendiente
// y, si trae SKU, con su inventario inicial.
//
// Uso: go run ./cmd/seed [-latin1] ruta/feed.csv
// Columnas: vendor_id,name,description,category_id,base_price,sku,quantity,low_stock_threshold,warehouse
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/catalog-backoffice/internal/application/catalog"
	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
	"github.com/jhoicas/catalog-backoffice/internal/application/inventory"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	infrapdf "github.com/jhoicas/catalog-backoffice/internal/infrastructure/pdf"
	"github.com/jhoicas/catalog-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/catalog-backoffice/pkg/clock"
	"github.com/jhoicas/catalog-backoffice/pkg/config"
	"github.com/jhoicas/catalog-backoffice/pkg/logger"
)

const seedActor = "seed"

var latin1 = flag.Bool("latin1", false, "el archivo viene en ISO-8859-1 (exportaciones de hojas de cálculo antiguas)")

type feedRow struct {
	Listing   dto.SubmitListingRequest
	SKU       string
	Quantity  decimal.Decimal
	Threshold decimal.Decimal
	Warehouse string
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [-latin1] feed.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir feed: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = decodeLatin1(f)
	}
	rows, err := parseFeed(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer feed: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("seed")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tx := postgres.NewTxRunner(pool)
	clk := clock.NewRealClock()
	workflow := catalog.NewWorkflowUseCase(tx, clk, cfg.Store.Timeout, log)
	ledger := inventory.NewLedgerUseCase(inventory.LedgerDeps{
		Tx:          tx,
		Records:     postgres.NewInventoryRecordRepository(pool),
		Movements:   postgres.NewInventoryMovementRepository(pool),
		Listings:    postgres.NewListingRepository(pool),
		PDF:         infrapdf.NewMarotoPDFGenerator(),
		Clock:       clk,
		Timeout:     cfg.Store.Timeout,
		DefaultSize: cfg.Paging.DefaultSize,
		MaxSize:     cfg.Paging.MaxSize,
		Log:         log,
	})

	var loaded, failed int
	for i, row := range rows {
		if err := load(ctx, workflow, ledger, row); err != nil {
			failed++
			log.Error().Err(err).Int("fila", i+2).Str("name", row.Listing.Name).Msg("fila no cargada")
			continue
		}
		loaded++
	}
	log.Info().Int("cargadas", loaded).Int("fallidas", failed).Msg("feed procesado")
	if failed > 0 {
		os.Exit(1)
	}
}

func load(ctx context.Context, workflow *catalog.WorkflowUseCase, ledger *inventory.LedgerUseCase, row feedRow) error {
	listing, err := workflow.Submit(ctx, seedActor, row.Listing)
	if err != nil {
		return err
	}
	if row.SKU == "" {
		return nil
	}
	_, err = ledger.ApplyMovement(ctx, inventory.MovementInput{
		ProductID:         listing.ID,
		SKU:               row.SKU,
		Type:              entity.MovementTypeInitial,
		Quantity:          row.Quantity,
		LowStockThreshold: row.Threshold,
		WarehouseID:       row.Warehouse,
		Note:              "carga inicial",
		Actor:             seedActor,
	})
	return err
}

func decodeLatin1(r io.Reader) io.Reader {
	return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
}

var feedHeader = []string{"vendor_id", "name", "description", "category_id", "base_price", "sku", "quantity", "low_stock_threshold", "warehouse"}

// parseFeed valida la cabecera y convierte cada fila; el primer error corta la carga.
func parseFeed(r io.Reader) ([]feedRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = len(feedHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	for i, col := range feedHeader {
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))) != col {
			return nil, fmt.Errorf("cabecera: columna %d debe ser %q", i+1, col)
		}
	}

	var rows []feedRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row, err := toRow(rec)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", line, err)
		}
		rows = append(rows, row)
	}
}

func toRow(rec []string) (feedRow, error) {
	price, err := decimal.NewFromString(rec[4])
	if err != nil {
		return feedRow{}, fmt.Errorf("base_price %q", rec[4])
	}
	row := feedRow{
		Listing: dto.SubmitListingRequest{
			VendorID:    rec[0],
			Name:        rec[1],
			Description: rec[2],
			CategoryID:  rec[3],
			BasePrice:   price,
		},
		SKU:       strings.TrimSpace(rec[5]),
		Warehouse: strings.TrimSpace(rec[8]),
	}
	if row.SKU == "" {
		return row, nil
	}
	if row.Quantity, err = decimalOrZero(rec[6]); err != nil {
		return feedRow{}, fmt.Errorf("quantity %q", rec[6])
	}
	if row.Threshold, err = decimalOrZero(rec[7]); err != nil {
		return feedRow{}, fmt.Errorf("low_stock_threshold %q", rec[7])
	}
	return row, nil
}

func decimalOrZero(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
