package config

// Default message templates, editable at runtime through the settings
// API. Placeholder tokens are substituted by the notifier.
const (
	DefaultTemplateDueToday = `🚗 Olá, {{cliente_nome}}!
Notamos que sua fatura vence *hoje* 📅.
Para evitar juros e manter o serviço ativo, faça o pagamento o quanto antes.

🔗 Link da fatura: {{link_fatura}}
💰 Valor: {{valor}}
📆 Vencimento: {{vencimento}}

Qualquer dúvida, nossa equipe está à disposição! 🤝`

	DefaultTemplateReminder = `🔔 Olá, {{cliente_nome}}, tudo bem?
Faltam apenas {{dias_aviso}} dia(s) para o vencimento da sua fatura 🗓️.
Evite a suspensão do serviço! 🛡️

🔗 Link da fatura: {{link_fatura}}
💰 Valor: {{valor}}
🗓️ Vencimento: {{vencimento}}

Estamos aqui para ajudar no que precisar! 📞`

	DefaultTemplateOverdue = `⚠️ Atenção, {{cliente_nome}}!
Sua fatura está *vencida* desde {{vencimento}} 🚨.

Pedimos que regularize o pagamento para evitar a interrupção do serviço.
Se já tiver efetuado o pagamento, por favor desconsidere esta mensagem.

🔗 Link da fatura: {{link_fatura}}
💰 Valor: {{valor}}
📆 Vencimento: {{vencimento}}

Conte conosco para qualquer dúvida! 🤝`
)
