package methods

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

func IsStringInSlice(s string, slice []string) bool {
	set := make(map[string]bool)
	for _, v := range slice {
		set[v] = true
	}
	return set[s]
}

func Md5Str(data string) string {
	hash := md5.New()
	hash.Write([]byte(data))
	return hex.EncodeToString(hash.Sum(nil))
}

func filterString(str string) string {
	// 只保留中文、英文、数字和下划线
	reg := regexp.MustCompile("[^\\p{Han}\\p{Latin}\\p{N}_]")
	result := reg.ReplaceAllString(str, "")
	result = strings.ReplaceAll(result, " ", "")
	return result
}

func moveLeadingNumbersToEnd(s string) string {
	re := regexp.MustCompile(`^(\d+)(.*)$`)
	match := re.FindStringSubmatch(s)
	if len(match) == 3 {
		return match[2] + match[1]
	}
	return s
}

// SafeFileName 面板名转安全文件名：汉字取拼音首字母，其余字符保留
// 导出OBJ与压缩包时用它避免中文路径在下游软件里出问题
func SafeFileName(name string) string {
	name = filterString(name)
	a := pinyin.NewArgs()
	a.Style = pinyin.FirstLetter
	var result string
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			ps := pinyin.SinglePinyin(r, a)
			if len(ps) > 0 {
				result += ps[0]
			}
		} else {
			result += string(r)
		}
	}
	if result == "" {
		result = "panel"
	}
	return strings.ToLower(moveLeadingNumbersToEnd(result))
}
