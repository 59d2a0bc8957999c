package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateReceipt(data ReceiptData) (string, error)
}

// ReceiptGenerator — реализация
type ReceiptGenerator struct {
	RootDir  string // корень хранения, например "./files"
	FontPath string // путь до TTF с корейскими глифами, например "assets/fonts/NotoSansKR-Regular.ttf"
	fontName string
}

type ReceiptLine struct {
	Name     string
	Quantity int
	Total    string
}

type ReceiptData struct {
	OrderNumber   string
	CustomerName  string
	PaymentMethod string
	Amount        string
	PaidAt        time.Time
	Lines         []ReceiptLine
	Filename      string // имя файла (без путей); если пусто — сгенерируем
}

func NewReceiptGenerator(rootDir, fontPath string) *ReceiptGenerator {
	return &ReceiptGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "NotoSansKR",
	}
}

// GenerateReceipt рендерит квитанцию об оплате заказа и возвращает
// относительный путь к готовому файлу.
func (g *ReceiptGenerator) GenerateReceipt(data ReceiptData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("receipt_%s.pdf", data.OrderNumber)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("영수증 %s", data.OrderNumber), true)
	pdf.SetAuthor("Bijou", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "결제 영수증", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("주문번호 %s  /  %s", data.OrderNumber, data.PaidAt.Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Покупатель и оплата
	g.sectionTitle(pdf, "결제 정보")
	g.kvLine(pdf, "구매자", data.CustomerName)
	g.kvLine(pdf, "결제수단", data.PaymentMethod)
	g.kvLine(pdf, "결제금액", data.Amount+"원")
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Позиции заказа
	g.sectionTitle(pdf, "주문 상품")
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(100, 7, "상품명", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "수량", "B", 0, "C", false, 0, "")
	pdf.CellFormat(40, 7, "금액", "B", 1, "R", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	for _, line := range data.Lines {
		pdf.CellFormat(100, 7, line.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", line.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, line.Total+"원", "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
	g.hr(pdf)

	pdf.SetFont(g.fontName, "", 10)
	pdf.MultiCell(0, 6, "본 영수증은 전자적으로 발급되었으며 별도의 서명 없이 유효합니다.", "", "L", false)

	// ===== Нумерация страниц
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(filepath.Base(absPath)), nil
}

// ===== helpers =====

func (g *ReceiptGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReceiptGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReceiptGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *ReceiptGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // безопасность
	return filepath.Join(g.RootDir, filename), nil
}

func (g *ReceiptGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}
