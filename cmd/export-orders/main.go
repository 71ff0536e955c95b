// Command export-orders writes the orders matching a category and a calendar
// day to a CSV file, without going through the HTTP service.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"vetrina/internal/config"
	"vetrina/internal/export"
	"vetrina/internal/repositories"
	"vetrina/internal/views"
)

func newCLI(fs afero.Fs, stdout io.Writer) *cli.App {
	return &cli.App{
		Name:  "export-orders",
		Usage: "export shop orders as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Value: views.All, Usage: "product category, or \"all\""},
			&cli.StringFlag{Name: "date", Usage: "calendar day as YYYY-MM-DD"},
			&cli.StringFlag{Name: "out", Usage: "output directory (defaults to EXPORT_DIR)"},
			&cli.StringFlag{Name: "driver", EnvVars: []string{"DB_DRIVER"}, Usage: "sqlite or postgres"},
			&cli.StringFlag{Name: "dsn", EnvVars: []string{"DATABASE_DSN"}, Usage: "database connection string"},
		},
		Action: func(c *cli.Context) error {
			return run(c, fs, stdout)
		},
	}
}

func run(c *cli.Context, fs afero.Fs, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.SetLevel(cfg.LogLevel)

	driver, dsn, dir := cfg.DBDriver, cfg.DatabaseDSN, cfg.ExportDir
	if c.IsSet("driver") {
		driver = c.String("driver")
	}
	if c.IsSet("dsn") {
		dsn = c.String("dsn")
	}
	if c.IsSet("out") {
		dir = c.String("out")
	}

	if driver == "memory" {
		return cli.Exit("the memory backend keeps orders inside the server process; use --driver sqlite or postgres", 2)
	}

	filter := views.OrderFilter{Category: c.String("category"), Date: c.String("date")}
	if err := filter.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	db, err := repositories.Open(driver, dsn)
	if err != nil {
		return err
	}
	orders, err := repositories.NewGORMOrderRepository(db).GetAll()
	if err != nil {
		return errors.Wrap(err, "load orders")
	}
	orders = views.FilterOrders(orders, filter, cfg.Location)

	data, err := export.OrdersCSV(orders, cfg.ExportOptions())
	if err != nil {
		return err
	}
	res := export.NewExporter(export.NewDirSink(fs, dir), log.StandardLogger()).Export(export.Filename(filter), data)
	if res.Logged {
		_, err = stdout.Write(res.Data)
		return err
	}
	fmt.Fprintf(stdout, "%d orders written to %s\n", len(orders), res.Path)
	return nil
}

func main() {
	if err := newCLI(afero.NewOsFs(), os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
