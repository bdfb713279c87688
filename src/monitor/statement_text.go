package monitor

import "unicode/utf16"

// endOfBatch is the statement_end_offset reported for the last statement of a batch
const endOfBatch = -1

// bytesPerChar is the width of one nvarchar code unit in the offsets reported by dm_exec_query_stats
const bytesPerChar = 2

// statementText cuts the statement addressed by the byte offsets out of its batch,
// following SUBSTRING(text, start/2 + 1, (end - start)/2 + 1) over UTF-16 code units.
func statementText(batch string, startOffset, endOffset int64) string {
	units := utf16.Encode([]rune(batch))
	total := int64(len(units))

	if endOffset == endOfBatch {
		endOffset = total * bytesPerChar
	}

	start := startOffset / bytesPerChar
	if start < 0 {
		start = 0
	}
	if start >= total {
		return ""
	}

	length := (endOffset-startOffset)/bytesPerChar + 1
	if length <= 0 {
		return ""
	}

	end := start + length
	if end > total {
		end = total
	}

	return string(utf16.Decode(units[start:end]))
}
