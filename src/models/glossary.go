package models

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// GlossaryTerm is one entry of the financial glossary.
type GlossaryTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

var glossary = []GlossaryTerm{
	{Term: "Ações", Definition: "Representam uma pequena fração do capital social de uma empresa. Ao comprar uma ação, você se torna sócio da companhia."},
	{Term: "Alocação de Ativos", Definition: "Estratégia de investimento que visa equilibrar risco e retorno, distribuindo o portfólio entre diferentes categorias de ativos, como ações, títulos e imóveis."},
	{Term: "Criptomoedas", Definition: "Moedas digitais ou virtuais que usam criptografia para segurança. São descentralizadas e baseadas na tecnologia blockchain."},
	{Term: "Dividend Yield (DY)", Definition: "Indicador que mede o rendimento de um dividendo em relação ao preço da ação. É calculado dividindo o valor dos dividendos pagos por ação pelo preço da ação."},
	{Term: "Dividendos", Definition: "Parte do lucro de uma empresa que é distribuída aos seus acionistas. É uma forma de remuneração pelo capital investido."},
	{Term: "Dívida Líquida / EBITDA", Definition: "Mede a saúde financeira de uma empresa, indicando quantos anos de geração de caixa (EBITDA) seriam necessários para pagar toda a sua dívida líquida. Valores baixos são preferíveis."},
	{Term: "ETFs (Exchange Traded Funds)", Definition: "Fundos de investimento negociados na bolsa de valores como se fossem ações. Geralmente, replicam o desempenho de um índice de referência (ex: Ibovespa)."},
	{Term: "EV/EBITDA", Definition: "Múltiplo que compara o valor de mercado de uma empresa (Enterprise Value) com seu lucro antes de juros, impostos, depreciação e amortização. É usado para avaliar o valor da empresa."},
	{Term: "FIIs (Fundos de Investimento Imobiliário)", Definition: "Fundos que investem em empreendimentos imobiliários (shoppings, prédios comerciais, galpões, etc.). Suas cotas são negociadas na bolsa e distribuem rendimentos mensais."},
	{Term: "Liquidez Corrente", Definition: "Indicador da capacidade de uma empresa de pagar suas dívidas de curto prazo. É calculado dividindo o ativo circulante pelo passivo circulante. Um valor acima de 1 é geralmente considerado saudável."},
	{Term: "LPA (Lucro por Ação)", Definition: "Indicador que mede o lucro líquido da empresa dividido pelo número total de ações emitidas. Mostra quanto de lucro cada ação gerou."},
	{Term: "Margem Líquida", Definition: "Mede a porcentagem de lucro que a empresa obtém para cada real de receita. É calculada dividindo o lucro líquido pela receita líquida."},
	{Term: "P/L (Preço/Lucro)", Definition: "Indicador que relaciona o preço atual da ação com o lucro por ação. Ajuda a avaliar se uma ação está \"cara\" ou \"barata\" em relação aos seus lucros."},
	{Term: "P/VP (Preço/Valor Patrimonial)", Definition: "Compara o preço de mercado da ação com o valor patrimonial por ação (VPA). Um P/VP abaixo de 1 pode indicar que a ação está sendo negociada com desconto em relação ao seu valor contábil."},
	{Term: "Payout", Definition: "A porcentagem do lucro líquido de uma empresa que é distribuída aos acionistas na forma de dividendos."},
	{Term: "Preço Médio", Definition: "O custo médio de aquisição de todas as unidades de um mesmo ativo em sua carteira. É calculado dividindo o valor total pago pela quantidade total de ativos."},
	{Term: "Rebalanceamento de Carteira", Definition: "O processo de ajustar a alocação de ativos da sua carteira para retornar às porcentagens-alvo definidas em sua estratégia. Envolve vender ativos que se valorizaram e comprar os que estão abaixo da meta."},
	{Term: "Renda Fixa", Definition: "Investimentos com regras de remuneração definidas no momento da aplicação. O investidor sabe previamente qual será o critério para o rendimento (ex: Tesouro Direto, CDBs)."},
	{Term: "ROE (Return on Equity)", Definition: "Indicador de rentabilidade que mede a capacidade de uma empresa gerar lucro a partir do seu próprio capital (patrimônio líquido). Um ROE alto indica maior eficiência."},
	{Term: "ROIC (Return on Invested Capital)", Definition: "Mede o retorno que uma empresa gera sobre todo o capital investido (próprio e de terceiros). É um indicador da eficiência da empresa na alocação de capital para gerar lucros."},
	{Term: "Tesouro Direto", Definition: "Programa do Tesouro Nacional para venda de títulos públicos federais para pessoas físicas. É considerado o investimento mais seguro do país."},
	{Term: "Ticker", Definition: "Um código único usado para identificar ações e outros ativos negociados na bolsa de valores (ex: PETR4, MGLU3)."},
	{Term: "Value Investing (Investimento em Valor)", Definition: "Estratégia de investimento que consiste em procurar e comprar ações por um preço abaixo do seu valor intrínseco (valor real). Popularizada por Benjamin Graham e Warren Buffett."},
	{Term: "VPA (Valor Patrimonial por Ação)", Definition: "Indicador que representa o valor do patrimônio líquido da empresa dividido pelo número total de ações. Indica, teoricamente, quanto cada acionista receberia se a empresa fosse liquidada."},
}

// Glossary returns the glossary sorted alphabetically with Portuguese collation.
// When query is not empty only terms or definitions containing it are kept.
func Glossary(query string) []GlossaryTerm {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]GlossaryTerm, 0, len(glossary))
	for _, g := range glossary {
		if query == "" ||
			strings.Contains(strings.ToLower(g.Term), query) ||
			strings.Contains(strings.ToLower(g.Definition), query) {
			out = append(out, g)
		}
	}
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Term, out[j].Term) < 0
	})
	return out
}
