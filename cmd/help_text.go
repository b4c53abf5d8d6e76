package cmd

import "strings"

func rootLongHelp() string {
	return strings.TrimSpace(`
按目录层级解析忽略文件与配置，检查 JavaScript 源码的 CLI。

目标参数：
- 支持多个文件、多个目录、文件+目录混合，按参数顺序逐个处理
- 目录默认递归，只检查 --ext 指定的扩展名（默认 .js）
- 直接点名的文件总会被检查，不受忽略规则和扩展名限制
- 不存在的文件会得到一条 fatal 消息；末尾带 / 的不存在目录直接报错
- 固定不跟随软链接

忽略规则：
- 每个目录及其所有上级目录中的 .syllintignore 都会生效（并集）
- 子目录中的 .syllintignore 只作用于该子目录
- 默认忽略：.git/ .svn/ node_modules/ bower_components/
- 行首 # 为注释；末尾 / 只匹配目录；包含 / 的模式相对忽略文件所在目录
- 不支持 ! 取反，这类行会被跳过
- --ignore-path 指定单一忽略文件；--no-ignore 全部关闭

配置来源（后者覆盖前者）：
1. 内置默认规则（--reset 关闭）
2. 从根目录到文件所在目录的 .syllintrc.yaml（root: true 停止向上查找）
3. --config 指定的文件
4. --env / --global / --rule

规则级别：0/off、1/warn、2/error，或 [级别, 选项...]

输出格式：
- stylish（默认，终端下带颜色）
- json（结果数组）
- ndjson（每行一个 result 事件，最后一行 summary）

环境变量（命令行参数优先）：
- SYL_LINT_EXTENSIONS / SYL_LINT_IGNORE_PATH / SYL_LINT_IGNORE_PATTERNS
- SYL_LINT_CONFIG / SYL_LINT_ENVS / SYL_LINT_GLOBALS / SYL_LINT_RULESDIR
- SYL_LINT_NO_IGNORE / SYL_LINT_NO_IMPLICIT_CONFIG

退出码：
- 0 通过
- 1 存在 error 级别问题
- 2 参数错误
- 3 输入错误（含找不到的文件）
- 4 配置错误
- 5 内部错误
`)
}

func rootExampleHelp() string {
	return strings.TrimSpace(`
  # 检查目录
  syl-lint src/

  # 文件 + 目录，按参数顺序输出
  syl-lint index.js lib/ test/

  # 额外扩展名与忽略模式
  syl-lint src/ --ext .js,.mjs --ignore-pattern 'src/vendor/'

  # 临时覆盖规则
  syl-lint src/ --rule 'max-len: [2, 100]' --rule 'no-console: off'

  # 自定义模式规则目录
  syl-lint src/ --rulesdir ./lint-rules

  # 给 CI 用的 NDJSON 输出
  syl-lint src/ --format ndjson --quiet
`)
}
