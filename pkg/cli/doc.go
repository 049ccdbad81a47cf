// Package cli implements the pricing-page command line.
//
// # Commands
//
// serve: run the page server and the health/metrics server
//
//	pricing-page serve --env-file .env
//
// render: write the page to stdout
//
//	pricing-page render --billing annual --catalog plans.yaml
//	pricing-page render -o json
//
// catalog validate: check a plan catalog
//
//	pricing-page catalog validate plans.yaml --strict
package cli
