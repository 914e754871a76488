package iocache

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/timeline/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintCacheStatus prints cache status information as a two-column table.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Property", "Value"})

	data := [][]string{
		{"Backend", status.Backend},
		{"Connected", strconv.FormatBool(status.Connected)},
	}
	if status.Connected {
		data = append(data, []string{"Total Entries", humanize.Comma(int64(status.TotalEntries))})
		if status.TotalEntries > 0 {
			data = append(data,
				[]string{"Last Entry", fmt.Sprintf("%s (%s)", status.LastEntryTime.Format("2006-01-02 15:04:05"), humanize.Time(status.LastEntryTime))},
				[]string{"Oldest Entry", fmt.Sprintf("%s (%s)", status.OldestEntryTime.Format("2006-01-02 15:04:05"), humanize.Time(status.OldestEntryTime))},
			)
		}
		data = append(data, []string{"Size", humanize.Bytes(uint64(max(status.TableSizeBytes, 0)))})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
