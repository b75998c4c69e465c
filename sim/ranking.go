package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/katalvlaran/pcnroute/network"
)

// rankingColumn is the channel id column of a betweenness ranking row
// "node,score,channel_id".
const rankingColumn = 2

// ReadRanking reads ranking rows, most central first. Rows with fewer than
// three fields carry no node and contribute their last field as the channel
// id. Rows with a blank channel id are skipped.
func ReadRanking(r io.Reader) ([]network.RankedChannel, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []network.RankedChannel
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("sim: read ranking: %w", err)
		}
		col := len(row) - 1
		var node string
		if col >= rankingColumn {
			col = rankingColumn
			node = strings.TrimSpace(row[0])
		}
		if id := strings.TrimSpace(row[col]); id != "" {
			rows = append(rows, network.RankedChannel{Node: node, ChannelID: id})
		}
	}
}

// LoadRanking reads a ranking file with ReadRanking.
func LoadRanking(path string) ([]network.RankedChannel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sim: open ranking: %w", err)
	}
	defer f.Close()
	return ReadRanking(f)
}
