package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/lost-pet-registry/internal/notify"
	q "github.com/iliyamo/lost-pet-registry/internal/queue"
)

// Dispatcher routes a sighting notification to its delivery path. With a
// broker configured the event goes onto the durable report.created queue and
// the background consumer performs the send; without one the mailer is
// called directly. Either way DispatchSighting never returns an error: the
// report row is the durable outcome of the request and delivery is a side
// effect.
type Dispatcher struct {
	AMQPURL string // empty means publish is skipped and mail is sent inline
	Mailer  notify.Mailer
}

func NewDispatcher(amqpURL string, mailer notify.Mailer) *Dispatcher {
	return &Dispatcher{AMQPURL: amqpURL, Mailer: mailer}
}

// DispatchSighting attempts delivery of the sighting notification. Failures
// are logged and swallowed.
func (d *Dispatcher) DispatchSighting(ctx context.Context, ev q.ReportCreatedEvent) {
	if d.AMQPURL != "" {
		if err := PublishReportCreated(ctx, d.AMQPURL, ev); err == nil {
			return
		}
		// Broker unreachable: fall through to the direct path so a flaky
		// broker does not silently drop notifications.
		log.Printf("dispatch: queue publish failed for report %d, sending directly", ev.ReportID)
	}

	sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	subject := notify.SightingSubject(ev.PetName)
	body := notify.SightingBody(ev.PetName, ev.ReporterName, ev.ReporterPhone, ev.Location, ev.Details)
	if err := d.Mailer.Send(sendCtx, ev.OwnerEmail, subject, body); err != nil {
		log.Printf("dispatch: send for report %d failed: %v", ev.ReportID, err)
	}
}
