package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// IniDecoderOptions INI 解码器配置
type IniDecoderOptions struct {
	// AllowEmptyValues 允许空值
	AllowEmptyValues bool `cfg:"allowEmptyValues"`
	// AllowBoolKeys 允许布尔型键（无值的键）
	AllowBoolKeys bool `cfg:"allowBoolKeys"`
	// AllowShadows 允许重复键（创建数组）
	AllowShadows bool `cfg:"allowShadows"`
}

// IniDecoder INI格式编解码器
// 支持标准INI格式，包含注释和分组支持
type IniDecoder struct {
	allowEmptyValues bool
	allowBoolKeys    bool
	allowShadows     bool
}

// NewIniDecoder 创建新的INI解码器
func NewIniDecoder() *IniDecoder {
	return &IniDecoder{
		allowEmptyValues: true,
		allowBoolKeys:    true,
		allowShadows:     true,
	}
}

// NewIniDecoderWithOptions 使用选项创建INI解码器
func NewIniDecoderWithOptions(options *IniDecoderOptions) *IniDecoder {
	if options == nil {
		return NewIniDecoder()
	}
	return &IniDecoder{
		allowEmptyValues: options.AllowEmptyValues,
		allowBoolKeys:    options.AllowBoolKeys,
		allowShadows:     options.AllowShadows,
	}
}

// Decode 将INI数据绑定到配置对象
func (i *IniDecoder) Decode(data []byte, v any) error {
	loadOptions := ini.LoadOptions{
		AllowBooleanKeys:           i.allowBoolKeys,
		AllowShadows:               i.allowShadows,
		AllowPythonMultilineValues: true,
		SpaceBeforeInlineComment:   true,
	}

	cfg, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return fmt.Errorf("failed to decode INI: %w", err)
	}

	// 转换INI结构为嵌套map：默认section在顶层，其余section作为子map
	result := make(map[string]any)
	for _, key := range cfg.Section("").Keys() {
		result[key.Name()] = i.parseValue(key)
	}

	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection || section.Name() == "" {
			continue
		}

		sectionMap := make(map[string]any)
		for _, key := range section.Keys() {
			sectionMap[key.Name()] = i.parseValue(key)
		}
		result[section.Name()] = sectionMap
	}

	return Bind(result, v)
}

// parseValue 解析INI键的值，尝试自动类型转换
func (i *IniDecoder) parseValue(key *ini.Key) any {
	value := key.String()

	// 处理重复键（shadows）
	if i.allowShadows {
		shadows := key.StringsWithShadows(",")
		if len(shadows) > 1 {
			values := make([]any, len(shadows))
			for idx, str := range shadows {
				values[idx] = i.parseStringValue(str)
			}
			return values
		}
	}

	// 处理空值：如果允许空值，则返回空字符串；如果是布尔键，则返回true
	if value == "" {
		if i.allowEmptyValues {
			return ""
		} else if i.allowBoolKeys {
			return true
		}
	}

	return i.parseStringValue(value)
}

// parseStringValue 解析字符串值，尝试自动类型转换
func (i *IniDecoder) parseStringValue(value string) any {
	if value == "" {
		return ""
	}

	if strings.ToLower(value) == "true" {
		return true
	}
	if strings.ToLower(value) == "false" {
		return false
	}

	if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
		return intVal
	}

	if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
		return floatVal
	}

	// 逗号分隔且各段不含首尾空格时按数组处理
	if strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		isArray := true
		for _, part := range parts {
			if strings.TrimSpace(part) != part {
				isArray = false
				break
			}
		}
		if isArray && len(parts) > 1 {
			values := make([]any, len(parts))
			for idx, part := range parts {
				values[idx] = i.parseStringValue(part)
			}
			return values
		}
	}

	return value
}

// Encode 将配置对象编码为INI数据
func (i *IniDecoder) Encode(v any) ([]byte, error) {
	// 先归一化为map结构，结构体字段名遵循 json tag 缺省规则
	data, err := normalize(v)
	if err != nil {
		return nil, err
	}

	cfg := ini.Empty()
	if err := i.encodeToINI(cfg, "", data); err != nil {
		return nil, fmt.Errorf("failed to encode to INI format: %w", err)
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write INI: %w", err)
	}

	return buf.Bytes(), nil
}

// encodeToINI 递归地将数据编码到INI结构中
func (i *IniDecoder) encodeToINI(cfg *ini.File, sectionName string, data any) error {
	switch v := data.(type) {
	case map[string]any:
		section := cfg.Section(sectionName)

		for key, value := range v {
			switch val := value.(type) {
			case map[string]any:
				// 嵌套对象作为新section
				newSectionName := key
				if sectionName != "" {
					newSectionName = sectionName + "." + key
				}
				if err := i.encodeToINI(cfg, newSectionName, val); err != nil {
					return err
				}
			case []any:
				if i.allowShadows {
					// 使用shadows支持多个相同键
					for _, item := range val {
						if _, err := section.NewKey(key, fmt.Sprintf("%v", item)); err != nil {
							return fmt.Errorf("failed to set key %s: %w", key, err)
						}
					}
				} else {
					// 转换为逗号分隔的字符串
					var strs []string
					for _, item := range val {
						strs = append(strs, fmt.Sprintf("%v", item))
					}
					if _, err := section.NewKey(key, strings.Join(strs, ",")); err != nil {
						return fmt.Errorf("failed to set key %s: %w", key, err)
					}
				}
			default:
				if _, err := section.NewKey(key, fmt.Sprintf("%v", val)); err != nil {
					return fmt.Errorf("failed to set key %s: %w", key, err)
				}
			}
		}
	default:
		return fmt.Errorf("unsupported data type for INI encoding: %T", data)
	}

	return nil
}

// normalize 将任意对象转为 map[string]any 树
func normalize(v any) (any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize value: %w", err)
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to normalize value: %w", err)
	}
	return result, nil
}
