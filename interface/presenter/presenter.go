// Package presenter renders store entities for the command line.
package presenter

import (
	"crowdfund/domain"
	"crowdfund/domain/util"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var ErrorUnknownFormat = fmt.Errorf("output must be one of table, json or yaml")

func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", ErrorUnknownFormat
	}
}

type Presenter struct {
	out    io.Writer
	format Format
	now    func() time.Time
}

func New(out io.Writer, format Format) *Presenter {
	return &Presenter{
		out:    out,
		format: format,
		now:    time.Now,
	}
}

// encode writes value as json or yaml. It returns false for the table format.
func (p *Presenter) encode(value interface{}) (bool, error) {
	switch p.format {
	case FormatJSON:
		encoder := json.NewEncoder(p.out)
		encoder.SetIndent("", "  ")
		return true, encoder.Encode(value)

	case FormatYAML:
		encoder := yaml.NewEncoder(p.out)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return true, err
		}
		return true, encoder.Close()
	}
	return false, nil
}

func (p *Presenter) table() *tabwriter.Writer {
	return tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
}

func (p *Presenter) Projects(projects []domain.Project) error {
	if projects == nil {
		projects = []domain.Project{}
	}
	if done, err := p.encode(projects); done {
		return err
	}

	w := p.table()
	fmt.Fprintln(w, "ID\tTITLE\tOWNER\tRAISED\tCOST\tBACKERS\tEXPIRES\tSTATUS")
	for _, project := range projects {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\n",
			project.ID,
			project.Title,
			util.ShortAddress(project.Owner),
			util.EtherString(project.Raised),
			util.EtherString(project.Cost),
			humanize.Comma(project.BackerCount),
			p.expiry(project),
			project.Status)
	}
	return w.Flush()
}

func (p *Presenter) expiry(project domain.Project) string {
	if project.Expired(p.now()) {
		return fmt.Sprintf("%v (expired)", project.Date)
	}
	return fmt.Sprintf("%v (%v)", project.Date, humanize.RelTime(project.ExpiresAt, p.now(), "ago", "from now"))
}

func (p *Presenter) Project(project *domain.Project) error {
	if done, err := p.encode(project); done {
		return err
	}
	if project == nil {
		_, err := fmt.Fprintln(p.out, "No project loaded.")
		return err
	}

	w := p.table()
	fmt.Fprintf(w, "ID:\t%v\n", project.ID)
	fmt.Fprintf(w, "Title:\t%v\n", project.Title)
	fmt.Fprintf(w, "Owner:\t%v\n", project.Owner)
	fmt.Fprintf(w, "Image:\t%v\n", project.ImageURL)
	fmt.Fprintf(w, "Raised:\t%v of %v\n", util.EtherString(project.Raised), util.EtherString(project.Cost))
	fmt.Fprintf(w, "Backers:\t%v\n", humanize.Comma(project.BackerCount))
	fmt.Fprintf(w, "Created:\t%v\n", domain.CalendarDate(project.CreatedAt))
	fmt.Fprintf(w, "Expires:\t%v\n", p.expiry(*project))
	fmt.Fprintf(w, "Status:\t%v\n", project.Status)
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.out, "\n%v\n", project.Description)
	return err
}

func (p *Presenter) Backers(backers []domain.Backer) error {
	if backers == nil {
		backers = []domain.Backer{}
	}
	if done, err := p.encode(backers); done {
		return err
	}

	w := p.table()
	fmt.Fprintln(w, "#\tBACKER\tCONTRIBUTION\tWHEN\tREFUNDED")
	for i, backer := range backers {
		fmt.Fprintf(w, "%03d\t%v\t%v\t%v\t%v\n",
			i+1,
			backer.Owner,
			util.EtherString(backer.Contribution),
			humanize.RelTime(backer.Timestamp, p.now(), "ago", "from now"),
			backer.Refunded)
	}
	return w.Flush()
}

func (p *Presenter) Stats(stats *domain.Stats) error {
	if done, err := p.encode(stats); done {
		return err
	}
	if stats == nil {
		_, err := fmt.Fprintln(p.out, "No stats loaded.")
		return err
	}

	w := p.table()
	fmt.Fprintf(w, "Projects:\t%v\n", humanize.Comma(stats.TotalProjects))
	fmt.Fprintf(w, "Backings:\t%v\n", humanize.Comma(stats.TotalBacking))
	fmt.Fprintf(w, "Donations:\t%v (%v)\n", util.EtherString(stats.TotalDonations), util.WeiString(stats.TotalDonations.Wei()))
	return w.Flush()
}

type accountView struct {
	State   string `json:"state" yaml:"state"`
	Account string `json:"account" yaml:"account"`
	Network string `json:"network" yaml:"network"`
}

func (p *Presenter) Account(state, account, network string) error {
	if done, err := p.encode(accountView{State: state, Account: account, Network: network}); done {
		return err
	}

	if account == "" {
		_, err := fmt.Fprintf(p.out, "🔵 %v, please connect wallet.\n", state)
		return err
	}
	_, err := fmt.Fprintf(p.out, "🔵 %v to %v as %v\n", state, network, account)
	return err
}

type transactionView struct {
	CallID      string     `json:"call_id" yaml:"call_id"`
	Op          string     `json:"op" yaml:"op"`
	Hash        string     `json:"hash" yaml:"hash"`
	SubmitTime  time.Time  `json:"submit_time" yaml:"submit_time"`
	ConfirmTime *time.Time `json:"confirm_time" yaml:"confirm_time"`
	Block       uint64     `json:"block" yaml:"block"`
	GasUsed     uint64     `json:"gas_used" yaml:"gas_used"`
	Succeeded   bool       `json:"succeeded" yaml:"succeeded"`
}

func (p *Presenter) Transaction(handle *domain.TxHandle) error {
	if handle == nil {
		return nil
	}

	view := transactionView{
		CallID:      handle.CallID.String(),
		Op:          handle.Op,
		Hash:        handle.Hash.Hex(),
		SubmitTime:  handle.SubmitTime,
		ConfirmTime: handle.ConfirmTime,
		Block:       handle.BlockNumber(),
		GasUsed:     handle.GasUsed(),
		Succeeded:   handle.Succeeded(),
	}
	if done, err := p.encode(view); done {
		return err
	}

	w := p.table()
	fmt.Fprintf(w, "Operation:\t%v\n", handle.Op)
	fmt.Fprintf(w, "Hash:\t%v\n", handle.Hash.Hex())
	fmt.Fprintf(w, "Block:\t%v\n", humanize.Comma(int64(view.Block)))
	fmt.Fprintf(w, "Gas used:\t%v\n", humanize.Comma(int64(view.GasUsed)))
	fmt.Fprintf(w, "Latency:\t%v\n", handle.Latency().Round(time.Millisecond))
	return w.Flush()
}
