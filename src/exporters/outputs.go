package exporters

// Downloadable output files.
const (
	FileCSV       = "transactions.csv"
	FileNonPOSCSV = "transactions_jo_veprim_ne_pos.csv"
	FileTXT       = "transactions.txt"
	FileXLSX      = "transactions.xlsx"
)

// Output describes one downloadable file.
type Output struct {
	Name        string
	ContentType string
	Label       string
}

// Outputs lists the files offered for every conversion, in display order.
var Outputs = []Output{
	{Name: FileCSV, ContentType: "text/csv; charset=utf-8", Label: "Download transactions.csv"},
	{Name: FileNonPOSCSV, ContentType: "text/csv; charset=utf-8", Label: "Download transactions without POS purchases"},
	{Name: FileTXT, ContentType: "text/plain; charset=utf-8", Label: "Download transactions.txt"},
	{Name: FileXLSX, ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Label: "Download transactions.xlsx"},
}

// Lookup finds an output by file name.
func Lookup(name string) (Output, bool) {
	for _, o := range Outputs {
		if o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}
