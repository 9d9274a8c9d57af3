package domain

import "time"

// NarrativeSpec は生成された物語全体です。生成後は変更しません。
type NarrativeSpec struct {
	Title  string  `json:"title"`
	Scenes []Scene `json:"scenes"`
}

// Scene は1ページに対応する物語の単位です。
type Scene struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// VisualIdentity は1リクエスト内の全挿絵に共通で適用される画風指定です。
type VisualIdentity struct {
	StylePrefix string
	SubjectTag  string
	// ConsistencyKey は全シーンの画像生成に同じ値で渡すシードです。nil なら指定しません。
	ConsistencyKey *int64
}

// IllustrationStatus は挿絵生成の結果種別です。
type IllustrationStatus string

const (
	IllustrationOK     IllustrationStatus = "ok"
	IllustrationFailed IllustrationStatus = "failed"
)

// Illustration はシーン1つ分の挿絵生成結果です。失敗は Status と Err で表現します。
type Illustration struct {
	SceneIndex   int
	Data         []byte
	MimeType     string
	URL          string
	SourcePrompt string
	Status       IllustrationStatus
	Err          error
}

// OK は挿絵が利用可能かどうかを返します。
func (i Illustration) OK() bool {
	return i.Status == IllustrationOK && (len(i.Data) > 0 || i.URL != "")
}

// Rect はページ上の矩形です。単位はポイント、原点は左上です。
type Rect struct {
	X, Y, W, H float64
}

// FontWeight は本文とタイトルで使い分けるフォントの太さです。
type FontWeight string

const (
	FontRegular FontWeight = "regular"
	FontBold    FontWeight = "bold"
)

// FontSpec はテキストブロックの書体指定です。
type FontSpec struct {
	Weight  FontWeight
	Size    float64
	Leading float64
}

// TitleBlock は1ページ目のみに置かれるタイトルです。Lines は Text を版面の幅で折り返したものです。
type TitleBlock struct {
	Text  string
	Lines []string
	X, Y  float64
	Font  FontSpec
}

// ImageBlock は画像の配置領域です。挿絵が失敗した場合は Placeholder が true になります。
type ImageBlock struct {
	Rect        Rect
	Data        []byte
	MimeType    string
	URL         string
	Placeholder bool
	Message     string
}

// TextBlock は折り返し済みの本文です。
type TextBlock struct {
	X, Y  float64
	Lines []string
	Font  FontSpec
}

// Page は1シーン分のページです。
type Page struct {
	SceneIndex int
	Title      *TitleBlock
	Image      ImageBlock
	Text       TextBlock
}

// PageFormat は固定のページサイズとレイアウト寸法です。
type PageFormat struct {
	Name      string
	Width     float64
	Height    float64
	Margin    float64
	ImageSize float64
}

// Document はページの並びです。1リクエストが所有し、書き出し後は読み取り専用です。
type Document struct {
	ID        string
	Title     string
	Format    PageFormat
	Pages     []Page
	CreatedAt time.Time
}

// NarrationAudio は物語全文の読み上げ音声です。Document には埋め込みません。
type NarrationAudio struct {
	CorrelationID string `json:"correlation_id"`
	Data          []byte `json:"-"`
	MimeType      string `json:"mime_type"`
	Location      string `json:"location,omitempty"`
}

// ResponseShape は応答の形を選びます。
type ResponseShape string

const (
	ShapeInline   ResponseShape = "inline"
	ShapeArtifact ResponseShape = "artifact"
)

// PlaceholderMarker はインライン応答で画像の代わりに置く目印です。
const PlaceholderMarker = "placeholder"

// InlineScene はクライアント側で即時描画するための {画像, 本文} の組です。
type InlineScene struct {
	SceneIndex int    `json:"scene_index"`
	Image      string `json:"image"`
	Text       string `json:"text"`
	Failed     bool   `json:"failed,omitempty"`
}

// InlinePayload はインライン応答の本体です。
type InlinePayload struct {
	Title  string        `json:"title"`
	Scenes []InlineScene `json:"scenes"`
	Audio  string        `json:"audio,omitempty"`
}

// ArtifactRef は永続化された成果物への参照です。
type ArtifactRef struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	MimeType string `json:"mime_type"`
	Pages    int    `json:"pages,omitempty"`
}

// Artifact は取得された成果物です。
type Artifact struct {
	ArtifactRef
	Data []byte `json:"-"`
}

// BookOutput はパイプラインの最終応答です。Shape に応じて Inline か Artifact のどちらかを持ちます。
type BookOutput struct {
	RequestID string          `json:"request_id"`
	Title     string          `json:"title"`
	Shape     ResponseShape   `json:"shape"`
	Inline    *InlinePayload  `json:"inline,omitempty"`
	Artifact  *ArtifactRef    `json:"artifact,omitempty"`
	Narration *NarrationAudio `json:"narration,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
}

// BookResult は生成工程の結果一式です。応答の形を決める OutputStrategy に渡されます。
type BookResult struct {
	RequestID     string
	Request       BookRequest
	Narrative     NarrativeSpec
	Identity      VisualIdentity
	Illustrations []Illustration
	Narration     *NarrationAudio
	Warnings      []string
}
