// 疾病领域分类器
package scoring

import (
	"math"
	"strings"

	"github.com/ctmis-ai/ctmis/internal/refdata"
)

// ClassifyDiseaseArea 将自由文本的 conditions 映射到单一疾病领域
// 对目录中每个领域名做大小写不敏感的子串包含测试，命中多个时取排名最高者；
// 无命中返回 ("", false)。
// 已知限制: 子串匹配不做单词边界处理，领域名作为其他单词的一部分出现时会误判，
// 为保持历史评分口径不做修正。
func ClassifyDiseaseArea(tables *refdata.Tables, conditions string) (string, bool) {
	text := strings.ToLower(conditions)
	if text == "" {
		return "", false
	}

	best := ""
	bestRank := math.MaxInt
	for _, area := range tables.Areas() {
		if !strings.Contains(text, strings.ToLower(area.Name)) {
			continue
		}
		rank, ok := tables.Rank(area.Name)
		if !ok {
			continue
		}
		if rank < bestRank {
			best = area.Name
			bestRank = rank
		}
	}

	return best, best != ""
}
