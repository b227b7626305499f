// Package importers loads books from CSV files produced by the exporters
// package back into the catalog.
//
// The import flow is:
//
//	file name → export directory → ParseBooksCSV → catalog.Service.Import → store
//
// Rows with the wrong number of columns are skipped and reported as
// RowError values. A row with the right shape but an unparseable year or
// price aborts the whole file: the batch is inserted in one transaction only
// after every row has been converted, so nothing from a rejected file reaches
// the store.
//
// # Example Usage
//
//	importer := importers.NewCSVImporter(service, cfg.Export.Dir)
//	result, err := importer.ImportFile("books_export.csv")
//	for _, rowErr := range result.Skipped {
//		fmt.Println(rowErr)
//	}
package importers
