// Package console imprime a saída do CLI com pterm.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/diillson/cloud-insights-reports/internal/domain/entity"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

// Console é uma implementação do ConsoleInterface.
type Console struct {
	out io.Writer
}

// NewConsole cria um novo Console escrevendo em stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// Cores predefinidas para uso consistente
var (
	BrightGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightRed   = color.New(color.FgRed, color.Bold).SprintFunc()
)

type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, cell := range cells {
		row[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, row)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	data := pterm.TableData{t.columns}
	data = append(data, t.rows...)

	rendered, _ := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	return rendered
}

// ResourceTable monta a tabela do inventário descoberto.
func (c *Console) ResourceTable(resources []entity.ResourceDescriptor) types.TableInterface {
	table := c.CreateTable()
	for _, col := range []string{"Reference", "Name", "Type", "State", "OS / Engine"} {
		table.AddColumn(col)
	}
	for _, r := range resources {
		detail := r.OS
		if r.ServiceType.IsManagedDatabase() {
			detail = r.Engine
		}
		state := r.State
		if r.IsStopped() {
			state = BrightRed(state)
		}
		table.AddRow(r.Ref().String(), r.Name, r.Type, state, detail)
	}
	return table
}

// DisplayCostBars imprime a participação de cada serviço no total, em barras.
func (c *Console) DisplayCostBars(b entity.CostBreakdown) {
	if b.TotalCost <= 0 || len(b.Services) == 0 {
		pterm.Warning.Printfln("No billable usage for %s", b.BillingPeriod)
		return
	}

	maxCost := b.Services[0].Amount
	for _, s := range b.Services {
		if s.Amount > maxCost {
			maxCost = s.Amount
		}
	}

	data := pterm.TableData{{"Service", "Cost", "", "% of Total"}}
	for _, s := range b.Services {
		bar := strings.Repeat("█", int(s.Amount/maxCost*40))
		barColor := pterm.FgBlue.Sprint(bar)
		if s.IsTax() {
			barColor = pterm.FgYellow.Sprint(bar)
		}
		data = append(data, []string{
			s.ServiceName,
			formatMoney(s.Amount, b.Currency),
			barColor,
			fmt.Sprintf("%.2f%%", b.Percentage(s.Amount)),
		})
	}
	data = append(data, []string{BrightGreen("Total"), BrightGreen(formatMoney(b.TotalCost, b.Currency)), "", ""})

	rendered, _ := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	title := fmt.Sprintf("Cost by Service - %s (%s)", b.BillingPeriod, b.Granularity)
	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(rendered)
	fmt.Fprintln(c.out, "\n"+panel)
}

func formatMoney(amount float64, currency string) string {
	if currency == "" || currency == "USD" {
		return fmt.Sprintf("$%.2f", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}

var _ types.ConsoleInterface = (*Console)(nil)
