package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Gender は読者の性別フレーミングです。値は閉じた二択です。
type Gender string

const (
	GenderBoy  Gender = "おとこのこ"
	GenderGirl Gender = "おんなのこ"
)

const (
	// MinAge と MaxAge は対応する読者年齢の範囲です。
	MinAge = 0
	MaxAge = 10

	// maxFreeTextRunes は hero / theme に許す最大文字数です。
	maxFreeTextRunes = 40
)

var (
	// Genders は選択可能な性別の一覧です。
	Genders = []Gender{GenderBoy, GenderGirl}
	// Heroes は選択肢として提示する主人公のアーキタイプです。自由入力も受け付けます。
	Heroes = []string{"ロボット", "くるま", "まほうつかい", "じぶん"}
	// Themes は選択肢として提示するテーマです。自由入力も受け付けます。
	Themes = []string{"ゆうじょう", "ぼうけん", "ちょうせん", "かぞく", "まなび"}
)

// BookRequest は絵本生成の入力パラメータです。リクエストごとに生成され、永続化されません。
type BookRequest struct {
	Age    int    `json:"age"`
	Gender Gender `json:"gender"`
	Hero   string `json:"hero"`
	Theme  string `json:"theme"`
}

// ParseGender は文字列を Gender に変換します。
func ParseGender(s string) (Gender, bool) {
	g := Gender(strings.TrimSpace(s))
	for _, known := range Genders {
		if g == known {
			return g, true
		}
	}
	return "", false
}

// Validate は全フィールドの存在と範囲を検証します。
// 問題のあるフィールドをすべて集めた *ValidationError を返します。
func (r BookRequest) Validate() error {
	var fields []FieldViolation

	if r.Age < MinAge || r.Age > MaxAge {
		fields = append(fields, FieldViolation{
			Field:  "age",
			Reason: fmt.Sprintf("%d〜%d の範囲で指定してください (got %d)", MinAge, MaxAge, r.Age),
		})
	}
	if _, ok := ParseGender(string(r.Gender)); !ok {
		fields = append(fields, FieldViolation{
			Field:  "gender",
			Reason: fmt.Sprintf("%q または %q を指定してください", GenderBoy, GenderGirl),
		})
	}
	fields = appendTextViolation(fields, "hero", r.Hero)
	fields = appendTextViolation(fields, "theme", r.Theme)

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Normalized は前後の空白を取り除いたコピーを返します。
func (r BookRequest) Normalized() BookRequest {
	return BookRequest{
		Age:    r.Age,
		Gender: Gender(strings.TrimSpace(string(r.Gender))),
		Hero:   strings.TrimSpace(r.Hero),
		Theme:  strings.TrimSpace(r.Theme),
	}
}

func appendTextViolation(fields []FieldViolation, name, value string) []FieldViolation {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		return append(fields, FieldViolation{Field: name, Reason: "必須です"})
	case utf8.RuneCountInString(v) > maxFreeTextRunes:
		return append(fields, FieldViolation{
			Field:  name,
			Reason: fmt.Sprintf("%d 文字以内で指定してください", maxFreeTextRunes),
		})
	}
	return fields
}
