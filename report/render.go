/*
render.go - Turning a sales bucket into a downloadable document

PURPOSE:
  A Renderer produces the bytes of one report document. The chat layer only
  needs bytes and a file extension, so richer renderers (PDF) can be plugged
  in without touching the flows. TextRenderer is the built-in plain-text
  implementation.

NAME RESOLUTION:
  Sales reference products, clients and sellers by id. The Document carries
  the full tables so deleted products still render ("Produs necunoscut") and
  sellers show their display name.
*/
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vinoteca/stockbot/ledger"
)

// Document is everything a renderer needs for one report.
type Document struct {
	Title    string
	Period   string
	Sales    []ledger.Sale
	Products []ledger.Product
	Clients  []ledger.Client
	Users    []ledger.User
}

// Renderer turns a document into file bytes plus the file extension to use
// (without the dot).
type Renderer interface {
	Render(doc Document) (data []byte, ext string, err error)
}

// NewDocument assembles a document for one bucket.
func NewDocument(b Bucket, products []ledger.Product, clients []ledger.Client, users []ledger.User) Document {
	return Document{
		Title:    "Raport vânzări",
		Period:   b.Period,
		Sales:    b.Sales,
		Products: products,
		Clients:  clients,
		Users:    users,
	}
}

// =============================================================================
// TEXT RENDERER
// =============================================================================

// TextRenderer renders a report as a plain-text table. Clock defaults to
// time.Now and exists so tests can pin the "generated at" line.
type TextRenderer struct {
	Clock func() time.Time
}

func (r *TextRenderer) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

// Render implements Renderer with extension "txt".
func (r *TextRenderer) Render(doc Document) ([]byte, string, error) {
	productByID := make(map[int]ledger.Product, len(doc.Products))
	for _, p := range doc.Products {
		productByID[p.ID] = p
	}
	clientByID := make(map[int]ledger.Client, len(doc.Clients))
	for _, c := range doc.Clients {
		clientByID[c.ID] = c
	}
	userByID := make(map[string]ledger.User, len(doc.Users))
	for _, u := range doc.Users {
		userByID[u.ID] = u
	}

	var b strings.Builder
	fmt.Fprintln(&b, NormalizeDiacritics(doc.Title))
	if doc.Period != "" {
		fmt.Fprintln(&b, NormalizeDiacritics(doc.Period))
	}
	fmt.Fprintf(&b, "Total inregistrari: %d\n", len(doc.Sales))
	fmt.Fprintf(&b, "Generat la: %s\n\n", r.now().Format("02.01.2006 15:04"))

	if len(doc.Sales) == 0 {
		fmt.Fprintln(&b, "Nu exista vanzari inregistrate.")
		return []byte(b.String()), "txt", nil
	}

	fmt.Fprintf(&b, "%-5s %-24s %5s  %-16s %-20s %s\n",
		"ID", "Produs", "Cant.", "Client", "Vanzator", "Data")
	for _, s := range doc.Sales {
		productName := "Produs necunoscut"
		if p, ok := productByID[s.ProductID]; ok {
			productName = p.Name
		}

		clientName := "-"
		if c, ok := clientByID[s.ClientID]; ok {
			clientName = c.NameDisplay
		}

		sellerName := "-"
		if s.SellerID != "" {
			sellerName = s.SellerID
			if u, ok := userByID[s.SellerID]; ok && u.Name != "" {
				sellerName = fmt.Sprintf("%s (%s)", u.Name, u.ID)
			}
		}

		fmt.Fprintf(&b, "#%-4d %-24s %5d  %-16s %-20s %s\n",
			s.ID,
			NormalizeDiacritics(productName),
			s.Qty,
			NormalizeDiacritics(clientName),
			NormalizeDiacritics(sellerName),
			s.CreatedAt.Format("02.01.2006 15:04"))
	}

	// Summary
	totalQty := 0
	byProduct := make(map[string]int)
	for _, s := range doc.Sales {
		totalQty += s.Qty
		name := "Necunoscut"
		if p, ok := productByID[s.ProductID]; ok {
			name = p.Name
		}
		byProduct[name] += s.Qty
	}

	fmt.Fprintf(&b, "\nSumar:\nTotal vanzari: %d bucati\nVanzari pe produs:\n", totalQty)

	names := make([]string, 0, len(byProduct))
	for name := range byProduct {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  - %s: %d bucati\n", NormalizeDiacritics(name), byProduct[name])
	}

	return []byte(b.String()), "txt", nil
}

var diacriticReplacer = strings.NewReplacer(
	"ă", "a", "Ă", "A",
	"â", "a", "Â", "A",
	"î", "i", "Î", "I",
	"ș", "s", "Ș", "S",
	"ț", "t", "Ț", "T",
)

// NormalizeDiacritics folds Romanian diacritics to plain ASCII so documents
// render the same regardless of font support.
func NormalizeDiacritics(s string) string {
	return diacriticReplacer.Replace(s)
}
