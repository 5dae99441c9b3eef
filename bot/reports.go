/*
reports.go - Report flows (administrators only)

PURPOSE:
  The three report buttons slice the sales history into buckets, render one
  document per non-empty bucket and send them in order, bracketed by a
  progress message and a completion message. Rendering failures for one
  bucket are reported and do not abort the rest.
*/
package bot

import (
	"context"
	"fmt"

	"github.com/vinoteca/stockbot/report"
)

func (r *Router) sendWeeklyReports(ctx context.Context, ev Event) error {
	return r.sendReports(ctx, ev, reportRun{
		buckets:  func() []report.Bucket { return report.DailyBuckets(r.ledger.Sales(), r.clock()) },
		count:    func() int { return len(report.DaysInLastWeek(r.clock())) },
		progress: "Generând %d rapoarte pentru ultima săptămână...",
		done:     "Toate rapoartele pentru ultima săptămână au fost generate.",
	})
}

func (r *Router) sendMonthlyReports(ctx context.Context, ev Event) error {
	return r.sendReports(ctx, ev, reportRun{
		buckets:  func() []report.Bucket { return report.WeeklyBuckets(r.ledger.Sales(), r.clock()) },
		count:    func() int { return len(report.WeeksInLastMonth(r.clock())) },
		progress: "Generând %d rapoarte pentru ultima lună...",
		done:     "Toate rapoartele pentru ultima lună au fost generate.",
	})
}

func (r *Router) sendSixMonthReports(ctx context.Context, ev Event) error {
	return r.sendReports(ctx, ev, reportRun{
		buckets:  func() []report.Bucket { return report.MonthlyBuckets(r.ledger.Sales(), r.clock()) },
		count:    func() int { return len(report.LastSixMonths(r.clock())) },
		progress: "Generând %d rapoarte pentru ultimele 6 luni...",
		done:     "Toate rapoartele pentru ultimele 6 luni au fost generate.",
	})
}

type reportRun struct {
	buckets  func() []report.Bucket
	count    func() int
	progress string
	done     string
}

func (r *Router) sendReports(ctx context.Context, ev Event, run reportRun) error {
	pol := r.policy()
	if !pol.IsAdmin(ev.UserID) {
		return r.denyNotAdmin(ctx, ev)
	}

	if len(r.ledger.Sales()) == 0 {
		return r.send(ctx, ev.UserID, Reply{Text: "Nu există vânzări încă.", Keyboard: r.mainMenuFor(ev.UserID)})
	}

	if err := r.send(ctx, ev.UserID, Reply{
		Text:     fmt.Sprintf(run.progress, run.count()),
		Keyboard: vanzariSubmenu(true),
	}); err != nil {
		return err
	}

	products := r.ledger.Products()
	clients := r.ledger.Clients()
	users := r.ledger.Users()

	for _, b := range run.buckets() {
		doc := report.NewDocument(b, products, clients, users)
		data, ext, err := r.renderer.Render(doc)
		if err != nil {
			r.log.WithError(err).WithField("report", b.Filename).Error("report rendering failed")
			if err := r.send(ctx, ev.UserID, Reply{Text: "⚠️ Raportul " + b.Filename + " nu a putut fi generat."}); err != nil {
				return err
			}
			continue
		}

		if err := r.out.SendDocument(ctx, ev.UserID, Document{
			Filename: b.Filename + "." + ext,
			Caption:  b.Caption,
			Data:     data,
		}); err != nil {
			r.log.WithError(err).WithField("report", b.Filename).Error("report delivery failed")
			return err
		}
	}

	return r.send(ctx, ev.UserID, Reply{Text: run.done, Keyboard: r.mainMenuFor(ev.UserID)})
}
