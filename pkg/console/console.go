package console

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/diillson/consumption-fraud-go/internal/shared/types"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// largura máxima das barras de probabilidade
const barWidth = 40

// Console é uma implementação do ConsoleInterface.
type Console struct {
	out io.Writer
}

// NewConsole cria um novo Console que escreve em stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWithWriter cria um Console que escreve em w.
func NewConsoleWithWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.WithWriter(c.out).Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.WithWriter(c.out).Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.WithWriter(c.out).Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.WithWriter(c.out).Printfln(format, a...)
}

// Cores predefinidas para uso consistente
var (
	BrightMagenta = color.New(color.FgMagenta, color.Bold).SprintFunc()
	BoldRed       = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightGreen   = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow  = color.New(color.FgYellow, color.Bold).SprintFunc()
	BrightCyan    = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.WithWriter(c.out).Start(message)
	return &statusHandle{spinner: spinner}
}

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

// progressHandle é uma implementação do ProgressHandle.
type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

// ProgressWithTotal cria uma barra de progresso para total clientes.
func (c *Console) ProgressWithTotal(total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Scoring clients").
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(false).
		WithWriter(c.out).
		Start()
	return &progressHandle{bar: bar}
}

// Increment incrementa a barra de progresso.
func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

// Stop pára a barra de progresso.
func (h *progressHandle) Stop() {
	if h.bar != nil {
		_, _ = h.bar.Stop()
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
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	tableData = append(tableData, t.rows...)

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayProbabilityBars exibe uma barra por cliente, escalada em [0, 1] e
// colorida pelo veredito.
func (c *Console) DisplayProbabilityBars(scores []types.ClientScore) {
	if len(scores) == 0 {
		pterm.Warning.WithWriter(c.out).Println("No client scores to display")
		return
	}

	tableData := pterm.TableData{
		{"Client", "Probability", "", "Verdict"},
	}

	for _, s := range scores {
		bar := strings.Repeat("█", barLength(s.Probability))

		verdict := pterm.FgGreen.Sprint("legitimate")
		barColor := pterm.FgGreen.Sprint(bar)
		if s.Fraudulent {
			verdict = pterm.FgRed.Sprint("fraudulent")
			barColor = pterm.FgRed.Sprint(bar)
		} else if s.Probability > 0.4 {
			// perto do limiar
			barColor = pterm.FgYellow.Sprint(bar)
		}

		tableData = append(tableData, []string{
			s.ClientID,
			fmt.Sprintf("%.4f", s.Probability),
			barColor,
			verdict,
		})
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle("Fraud Probability by Client").WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)

	fmt.Fprintln(c.out, "\n"+panel)
}

// DisplayClassBalance exibe a contagem de rótulos vistos primeiro por cliente.
func (c *Console) DisplayClassBalance(balance map[string]int) {
	keys := make([]string, 0, len(balance))
	total := 0
	for k, n := range balance {
		keys = append(keys, k)
		total += n
	}
	sort.Strings(keys)

	table := c.CreateTable()
	table.AddColumn("Label")
	table.AddColumn("Clients")
	table.AddColumn("Share")
	for _, k := range keys {
		share := 0.0
		if total > 0 {
			share = float64(balance[k]) / float64(total) * 100
		}
		table.AddRow(k, balance[k], fmt.Sprintf("%.1f%%", share))
	}

	fmt.Fprintln(c.out, BrightCyan("Class balance"))
	fmt.Fprintln(c.out, table.Render())
}

func barLength(p float64) int {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return barWidth
	}
	return int(p * barWidth)
}
