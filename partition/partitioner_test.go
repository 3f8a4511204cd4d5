package partition

import (
	"math/rand"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abj1210/zencoder/bitstream"
	"github.com/abj1210/zencoder/wordgraph"
)

// buildDenseGraph returns a WordGraph over a repeated Han sentence, rich
// enough in bigrams to support small-K partitions in tests.
func buildDenseGraph(t *testing.T) *wordgraph.WordGraph {
	t.Helper()
	sentence := []rune("的一是在不了有和人这的一是在不了有和人这们中大为上个国我以要他时来用们生到作地于出就分对成会可主发年动同工也能下过子说产种面而方后多定行学法所民得经十三之进着等部度家电力里如水化高自二理起小物现实加量都两体制机当使点从业本去把性好应开它合还因由其些然前外天政四日那社义事平形相全表间样与关各重新线内数正心反你明看原又么利比或但质气第向道命此变条只没结解问意建月公无系军很情者最立代想已通并提直题党程展五果料象员革位入常文总次品式活设及管特件长求老头基资边流路级少图山统接知较将组见计别她手角期根论运农指几九区强放决西被干做必战先回则任取据处队南给色光门即保治北造百规热领七海口东导器压志世金增争济阶油思术极交受联什认六共权收证改清己美再采转更单风切打白教速花带安场身车例真务具万每目至达走积示议声报斗完类八离华名确才科张信马节话米整空元况今集温传土许步群广石记需段研界拉林律叫且究观越织装影算低持音众书布复容儿须际商非验连断深难近矿千周委素技备半办青省列习响约支般史感劳便团往酸历市克何除消构府称太准精值号率族维划选标写存候毛亲快效斯院查江型眼王按格养易置派层片始却专状育厂京识适属圆包火住调满县局照参红细引听该铁价严")

	g := wordgraph.New()
	var prev rune
	have := false
	for _, r := range sentence {
		if !unicode.Is(unicode.Han, r) {
			continue
		}
		if have {
			g.AddEdge(prev, r)
		}
		prev = r
		have = true
	}
	return g
}

func TestBuildRejectsVocabularyTooSmall(t *testing.T) {
	g := wordgraph.New()
	g.AddEdge('的', '一')
	g.AddEdge('一', '是')

	_, err := Build(g, DefaultTreeCount, NewDeterministicRand(1))
	assert.ErrorIs(t, err, ErrVocabularyTooSmall)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := buildDenseGraph(t)
	p, err := Build(g, 2, NewDeterministicRand(42))
	require.NoError(t, err)

	cases := [][]byte{
		{},
		{0x00},
		{0xFF},
		{0xAA, 0x55},
	}
	rnd := rand.New(rand.NewSource(7))
	random := make([]byte, 256)
	rnd.Read(random)
	cases = append(cases, random)

	for _, b := range cases {
		words := p.Encode(bitstream.FromBytes(b), NewDeterministicRand(99))
		decoded := p.Decode(words)
		require.NotNil(t, decoded)
		assert.Equal(t, b, decoded.ToBytes())
	}
}

func TestEncodeOutputAlphabetIsRecognizedByDecode(t *testing.T) {
	g := buildDenseGraph(t)
	p, err := Build(g, 2, NewDeterministicRand(1))
	require.NoError(t, err)

	words := p.Encode(bitstream.FromBytes([]byte{0x13, 0x37, 0x99}), NewDeterministicRand(5))
	for _, w := range words {
		assert.True(t, unicode.Is(unicode.Han, w))
	}
	assert.NotNil(t, p.Decode(words))
}

func TestPartitionDisjointness(t *testing.T) {
	g := buildDenseGraph(t)
	p, err := Build(g, 2, NewDeterministicRand(3))
	require.NoError(t, err)

	seen := make(map[rune]int)
	for i, tr := range p.Trees {
		for _, w := range tr.Words() {
			if other, ok := seen[w]; ok {
				t.Fatalf("word %q appears as a leaf in both tree %d and tree %d", w, other, i)
			}
			seen[w] = i
		}
	}
}

func TestDecodeRejectsUnknownWord(t *testing.T) {
	g := buildDenseGraph(t)
	p, err := Build(g, 2, NewDeterministicRand(9))
	require.NoError(t, err)

	assert.Nil(t, p.Decode([]rune{'的', 'X'}))
}

func TestDecodeEmptyWordsYieldsEmptyBytes(t *testing.T) {
	g := buildDenseGraph(t)
	p, err := Build(g, 2, NewDeterministicRand(11))
	require.NoError(t, err)

	decoded := p.Decode(nil)
	require.NotNil(t, decoded)
	assert.Equal(t, []byte{}, decoded.ToBytes())
}
