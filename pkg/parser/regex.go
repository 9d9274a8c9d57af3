package parser

import "regexp"

var (
	// JSONBlockRegex は ```json ... ``` 形式のコードブロックの中身をキャプチャします。
	JSONBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")
)
