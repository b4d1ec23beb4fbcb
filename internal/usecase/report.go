package usecase

import (
	"time"

	"credmask/internal/detector"
	"credmask/internal/dom"
	"credmask/internal/entity"
)

// NewReport summarises the session registry after the pass res.
func NewReport(sess *detector.Session, res detector.PassResult) *entity.ScanReport {
	reg := sess.Registry()

	report := &entity.ScanReport{
		SessionID:      sess.ID,
		URL:            sess.URL,
		Pass:           res.Pass,
		SingleInput:    sess.SingleInput,
		DetectedFields: reg.DetectedFields(),
		NewFields:      res.NewFields,
		Fields:         []entity.FieldSummary{},
		Combinations:   []entity.CombinationSummary{},
		Timestamp:      time.Now(),
	}

	for _, f := range reg.Inputs() {
		report.Fields = append(report.Fields, summarise(sess, f))
	}

	for _, c := range reg.Combinations() {
		cs := entity.CombinationSummary{Form: nodeID(c.Form)}
		if c.Username != nil {
			u := summarise(sess, c.Username)
			cs.Username = &u
		}
		if c.Password != nil {
			p := summarise(sess, c.Password)
			cs.Password = &p
		}
		report.Combinations = append(report.Combinations, cs)
	}

	for _, id := range res.Masked {
		report.Masked = append(report.Masked, int64(id))
	}

	if res.Err != nil {
		report.Error = res.Err.Error()
	}

	return report
}

func summarise(sess *detector.Session, n *dom.Node) entity.FieldSummary {
	name, _ := n.Attr("name")
	if name == "" {
		name, _ = n.Attr("id")
	}

	return entity.FieldSummary{
		ID:     int64(n.ID),
		Name:   name,
		Type:   n.InputType,
		Form:   nodeID(n.Form),
		Masked: sess.Masked(n.ID),
	}
}

func nodeID(n *dom.Node) int64 {
	if n == nil {
		return 0
	}

	return int64(n.ID)
}
